package app

import (
	"context"

	"go-tasktracker/internal/bootstrap"
	"go-tasktracker/internal/config"

	"go.uber.org/zap"
)

// RunAPI serves the HTTP API until ctx is cancelled.
func RunAPI(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	in, err := Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := Migrate(in.GormDB); err != nil {
		return err
	}

	router, err := NewRouter(ctx, in, cfg, logger)
	if err != nil {
		return err
	}

	return bootstrap.StartHTTPServer(ctx, router, bootstrap.DefaultServerConfig(cfg.Port), in.Audit)
}
