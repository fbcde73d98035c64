package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	server       *http.Server
	orchestrator dashboard.Orchestrator
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, orchestrator dashboard.Orchestrator) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, orchestrator: orchestrator}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	if a.cfg.Dashboard.RestoreOnStart {
		go restoreDashboard(ctx, a.orchestrator, a.logger)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// restoreDashboard replays the stored profile once so the dashboard is populated on start.
func restoreDashboard(ctx context.Context, orchestrator dashboard.Orchestrator, logger *slog.Logger) {
	restored, err := orchestrator.Restore(ctx)
	switch {
	case err != nil:
		logger.Warn("dashboard restore failed", "error", err)
	case restored:
		logger.Info("dashboard restored from stored profile")
	}
}
