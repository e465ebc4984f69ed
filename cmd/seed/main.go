package main

import (
	"context"
	"os/signal"
	"syscall"

	"go-tasktracker/internal/app"
	"go-tasktracker/internal/config"
	"go-tasktracker/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunSeed(ctx, cfg, logger); err != nil {
		logger.Fatal("run seed failed", zap.Error(err))
	}
}
