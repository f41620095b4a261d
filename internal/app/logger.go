package app

import (
	"io"
	"log/slog"

	"github.com/cyberpompier/lumina/internal/config"
)

// NewLogger writes text logs in dev and JSON everywhere else.
func NewLogger(w io.Writer, cfg config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	var h slog.Handler
	if cfg.Env == "dev" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "lumina", "version", cfg.Version)
}
