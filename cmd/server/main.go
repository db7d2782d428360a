package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hospital/internal/platform/config"
	"hospital/internal/platform/httpserver"
	"hospital/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Access rules live in internal/access.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	srv := httpserver.New(cfg.Server.Addr, newRouter(cfg, a, log))
	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
}
