package notify

import (
	"context"
	"log/slog"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a notifier bound to the logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notify")}
}

// Notify implements dashboard.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, note dashboard.Notification) {
	level := slog.LevelInfo
	if note.Kind == dashboard.NotificationError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, note.Title,
		"submission_id", note.SubmissionID,
		"kind", note.Kind,
		"description", note.Description,
	)
}

// Multi fans a notification out to several notifiers in order.
type Multi []dashboard.Notifier

// Notify implements dashboard.Notifier.
func (m Multi) Notify(ctx context.Context, note dashboard.Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, note)
		}
	}
}

var (
	_ dashboard.Notifier = (*LogNotifier)(nil)
	_ dashboard.Notifier = Multi(nil)
)
