package app

import (
	"context"
	"fmt"
	"time"

	"go-tasktracker/internal/config"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/messaging/kafka/producer"
	"go-tasktracker/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	worker := producer.NewWorker(kafka.NewOutboxRepository(in.DB), kafkaWriter, in.Metrics, 3*time.Second, logger)
	worker.Run(ctx)

	log.Info("worker shut down")
	return nil
}
