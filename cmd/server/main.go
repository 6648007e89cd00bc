package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/codexlib/libraryd/internal/config"
	"github.com/codexlib/libraryd/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := server.NewLogger(cfg)

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("server init failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
