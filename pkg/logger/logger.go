package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "weather-dashboard"

// New constructs the JSON slog logger used by the HTTP service.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter builds the same logger on an arbitrary sink. The terminal
// dashboard owns stdout, so it logs to a file instead.
func NewWithWriter(w io.Writer) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
