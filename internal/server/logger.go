package server

import (
	"log/slog"
	"os"

	"github.com/codexlib/libraryd/internal/config"
)

// NewLogger returns a slog.Logger matching the configured format.
func NewLogger(cfg *config.Config) *slog.Logger {
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
