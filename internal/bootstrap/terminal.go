package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/interface/tui"
)

// Terminal runs the interactive dashboard in the current terminal.
type Terminal struct {
	cfg           *config.Config
	logger        *slog.Logger
	orchestrator  dashboard.Orchestrator
	notifications dashboard.NotificationLog
}

// NewTerminal is used by Wire to build the terminal dashboard.
func NewTerminal(cfg *config.Config, logger *slog.Logger, orchestrator dashboard.Orchestrator, notifications dashboard.NotificationLog) *Terminal {
	return &Terminal{
		cfg:           cfg,
		logger:        logger.With("component", "bootstrap.terminal"),
		orchestrator:  orchestrator,
		notifications: notifications,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if t.cfg.Dashboard.RestoreOnStart {
		go restoreDashboard(ctx, t.orchestrator, t.logger)
	}

	program := tea.NewProgram(
		tui.NewModel(ctx, t.orchestrator, t.notifications),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	t.logger.Info("terminal dashboard starting")
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
