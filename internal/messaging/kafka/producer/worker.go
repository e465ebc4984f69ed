package producer

import (
	"context"
	"time"

	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/shared/metrics"

	"go.uber.org/zap"
)

const batchSize = 50

type Worker struct {
	repo         kafka.OutboxRepository
	writer       MessageWriter
	metrics      *metrics.Metrics
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewWorker(repo kafka.OutboxRepository, writer MessageWriter, m *metrics.Metrics, pollInterval time.Duration, logger ...*zap.Logger) *Worker {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	l := zap.L().Named("kafka.producer.worker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer.worker")
	}
	return &Worker{repo: repo, writer: writer, metrics: m, pollInterval: pollInterval, logger: l}
}

// Run polls the outbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started", zap.Duration("poll_interval", w.pollInterval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := w.Flush(ctx); err != nil {
				w.logger.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// Flush publishes one batch of due employee lifecycle events and returns how
// many were sent.
// A failed publish marks the row for a delayed retry and moves on.
func (w *Worker) Flush(ctx context.Context) (int, error) {
	events, err := w.repo.ListPending(ctx, kafka.AggregateEmployee, batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	w.logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := w.writer.WriteMessages(ctx, toMessage(event)); err != nil {
			w.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			w.metrics.RecordOutbox("failed")
			if markErr := w.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				w.logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		sent++
		w.metrics.RecordOutbox("sent")
		w.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("request_id", event.RequestID),
		)
	}

	return sent, nil
}
