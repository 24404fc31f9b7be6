package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"alcyxob/workout-tracker/internal/config"
)

// ParseLevel maps a config level name onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs a stderr logger as the process default and returns it.
func Setup(cfg config.LogConfig) *slog.Logger {
	logger := NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}
