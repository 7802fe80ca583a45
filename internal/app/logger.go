package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ukrlex/stressdb/internal/config"
)

// NewLogger creates a *slog.Logger from LogConfig and installs it as the
// default via slog.SetDefault.
//
// Format "json" produces structured JSON output; anything else falls back to
// the human-readable text handler. Level is one of debug, info, warn, error
// (case-insensitive), defaulting to info. Output always goes to os.Stderr so
// the build report on stdout stays machine-readable.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
