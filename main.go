package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icco/depressiondash/handlers"
	"github.com/icco/depressiondash/lib/auth"
	"github.com/icco/depressiondash/lib/config"
	"github.com/icco/depressiondash/lib/dataset"
)

type App struct {
	cfg    *config.Config
	cache  *dataset.Cache
	logger *slog.Logger
	router http.Handler
}

func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	loader, err := dataset.NewLoader(cfg.DataPath, cfg.DataTable, cfg.DataSheet, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset loader: %w", err)
	}

	cache := dataset.NewCache(loader, logger)
	router := handlers.NewRouter(handlers.Deps{
		Cache:    cache,
		Store:    auth.NewStore(),
		Gate:     auth.NewGate(cfg.Password),
		LogoPath: cfg.LogoPath,
		Logger:   logger,
	})

	return &App{cfg: cfg, cache: cache, logger: logger, router: router}, nil
}

// Run serves until ctx is cancelled. SIGHUP drops the cached dataset.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				a.cache.Invalidate()
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", slog.String("port", a.cfg.Port), slog.String("data", a.cfg.DataPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))
	logger := slog.Default()

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to start", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Error("Server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
