package app

import (
	"context"
	"fmt"

	"go-tasktracker/internal/approval"
	"go-tasktracker/internal/config"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/events"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/messaging/kafka/consumer"
	"go-tasktracker/internal/shared/counter"
	"go-tasktracker/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const lifecycleGroupID = "tasktracker-user-reconciler"

// RunConsumer applies employee lifecycle events to linked users until ctx is
// cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	approvalService := approval.NewService(
		in.DB,
		employee.NewRepository(in.GormDB),
		user.NewRepository(in.GormDB),
		counter.NewRepository(in.GormDB),
		kafka.NewOutboxRepository(in.DB),
		in.Metrics,
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeLifecycleTopic,
		GroupID:        lifecycleGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeEmployeeLifecycle(ctx, reader, approvalService, logger)
	return nil
}
