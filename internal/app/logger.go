package app

import (
	"io"
	"log/slog"
)

// newLogger builds the instance-scoped logger. It does not touch the global
// default; every log line carries the instance index so operators can tell
// cooperating processes apart in aggregated output.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler).With("instance", cfg.Instance)
}
