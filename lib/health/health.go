package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/icco/depressiondash/lib/dataset"
	"github.com/icco/depressiondash/lib/types"
)

// Health represents the health check response structure.
// It includes the overall status, timestamp, and dataset health information.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Dataset   struct {
		Status  string              `json:"status"`
		Message string              `json:"message,omitempty"`
		Stats   *types.DatasetStats `json:"stats,omitempty"`
	} `json:"dataset"`
}

// Check returns an HTTP handler that reports whether the survey dataset is
// loaded. If nothing has been loaded yet it tries once, giving up after
// five seconds.
func Check(cache *dataset.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := Health{
			Status:    "ok",
			Timestamp: time.Now(),
		}

		status := cache.Status()
		if !status.Loaded && status.Err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = cache.Get(ctx)
			}()
			select {
			case <-done:
				status = cache.Status()
			case <-ctx.Done():
				health.Status = "degraded"
				health.Dataset.Status = "loading"
				health.Dataset.Message = "Dataset load still in progress"
				writeHealth(w, health, http.StatusServiceUnavailable)
				return
			}
		}

		if !status.Loaded {
			health.Status = "degraded"
			health.Dataset.Status = "error"
			health.Dataset.Message = "Dataset failed to load"
			if status.Err != nil {
				slog.Warn("Health check found dataset error", slog.Any("error", status.Err))
			}
			writeHealth(w, health, http.StatusServiceUnavailable)
			return
		}

		health.Dataset.Status = "ok"
		health.Dataset.Stats = &status.Stats
		writeHealth(w, health, http.StatusOK)
	}
}

// writeHealth writes the health check response to the HTTP response writer.
func writeHealth(w http.ResponseWriter, health Health, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		slog.Error("Failed to encode health response", slog.Any("error", err))
	}
}
