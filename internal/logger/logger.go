package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"changelogreader/internal/infrastructure/config"
)

// New builds the service logger from the logging section of the config.
func New(cfg config.LoggingConfig, service string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, service)
}

func newWithWriter(w io.Writer, cfg config.LoggingConfig, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", service)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
