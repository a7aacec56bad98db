package dataset

import (
	"context"
	"log/slog"
	"sync"

	"github.com/icco/depressiondash/lib/types"
	"golang.org/x/sync/singleflight"
)

// Cache loads the dataset on first use and shares it until Invalidate is
// called. Concurrent first calls share a single load. Failed loads are not
// kept, so the next Get tries again.
type Cache struct {
	loader Loader
	logger *slog.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	dataset    *Dataset
	lastErr    error
	generation uint64
}

func NewCache(loader Loader, logger *slog.Logger) *Cache {
	return &Cache{loader: loader, logger: logger}
}

// Get returns the cached dataset, loading it if needed.
func (c *Cache) Get(ctx context.Context) (*Dataset, error) {
	c.mu.RLock()
	ds, gen := c.dataset, c.generation
	c.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	v, err, shared := c.group.Do("dataset", func() (interface{}, error) {
		// One caller going away must not fail the load for the others.
		ds, err := c.loader.Load(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation != gen {
			// Invalidated mid-load; hand the result back but don't keep it.
			return ds, err
		}
		if err != nil {
			c.lastErr = err
			c.logger.Error("Failed to load dataset", slog.Any("error", err))
			return nil, err
		}
		c.dataset = ds
		c.lastErr = nil
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("Shared dataset load")
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached dataset so the next Get reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dataset = nil
	c.lastErr = nil
	c.generation++
	c.logger.Info("Dataset cache invalidated")
}

// Status describes the cache for health checks.
type Status struct {
	Loaded bool
	Stats  types.DatasetStats
	Err    error
}

// Status reports whether a dataset is loaded and the last load error, if
// any. It never triggers a load.
func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dataset == nil {
		return Status{Err: c.lastErr}
	}
	return Status{Loaded: true, Stats: c.dataset.Stats()}
}
