package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"worldclock/internal/env"
)

// New builds the process logger: colored text in dev, JSON otherwise.
// The terminal UI owns stdout, so logs go to w (normally stderr).
func New(w io.Writer, cfg env.Config, version string) *slog.Logger {
	if cfg.Dev() {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  cfg.LogLevel <= slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", "worldclock")
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", "worldclock",
		"version", version,
		"env", cfg.AppEnv,
	)
}
