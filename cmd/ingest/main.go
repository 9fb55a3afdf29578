package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bardown/lacrosse-tracker/internal/app"
	"github.com/bardown/lacrosse-tracker/internal/config"
	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestor, err := app.NewIngestor(ctx, cfg, logger)
	if err != nil {
		logger.Error("build ingestor", "error", err)
		os.Exit(1)
	}
	defer ingestor.Close()

	logger.Info("ingestor starting",
		"env", cfg.AppEnv,
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)

	if err := ingestor.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestor stopped")
}
