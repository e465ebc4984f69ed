package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-tasktracker/internal/config"
	"go-tasktracker/internal/shared/audit"
	"go-tasktracker/internal/shared/connection"
	"go-tasktracker/internal/shared/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of one process.
type Infra struct {
	GormDB   *gorm.DB
	DB       *sql.DB
	Redis    *redis.Client
	Mongo    *mongo.Client
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Audit    audit.Logger
}

// Connect opens Postgres and, when configured, Redis and MongoDB. Redis and
// MongoDB are optional: a failed connection is logged and the feature that
// depends on it degrades.
func Connect(cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
		cfg.ConnectRetries,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	infra := &Infra{
		GormDB:   gormDB,
		DB:       sqlDB,
		Registry: reg,
		Metrics:  metrics.New(reg),
		Audit:    audit.NewStdoutLogger(logger),
	}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			logger.Warn("redis unavailable, caching and idempotency disabled", zap.Error(err))
		} else {
			infra.Redis = rdb
		}
	}

	if cfg.MongoURI != "" {
		client, err := connection.ConnectMongoWithRetry(cfg.MongoURI, cfg.ConnectRetries)
		if err != nil {
			logger.Warn("mongo unavailable, audit log goes to stdout", zap.Error(err))
		} else {
			infra.Mongo = client
			infra.Audit = audit.NewMongoLogger(client.Database(cfg.MongoDatabase), logger)
		}
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, i.Mongo.Disconnect(ctx))
		cancel()
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}
