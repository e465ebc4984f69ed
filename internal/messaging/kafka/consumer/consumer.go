package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-tasktracker/internal/employee/errors"
	"go-tasktracker/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Reconciler copies an employee's approval state onto its linked user.
type Reconciler interface {
	Reconcile(ctx context.Context, employeeID string) error
}

func handles(eventType string) bool {
	return eventType == events.EmployeeReconcileRequested || eventType == events.EmployeeApproved
}

var (
	retryBackoff    = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

// ConsumeEmployeeLifecycle runs until ctx is cancelled. A message is
// committed once it has been handled, skipped as irrelevant, or found to be
// permanently unprocessable. A transient failure is retried in place before
// the next message is fetched.
func ConsumeEmployeeLifecycle(ctx context.Context, reader MessageReader, reconciler Reconciler, logger *zap.Logger) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		if !processWithRetry(ctx, msg, reconciler, log) {
			log.Info("employee lifecycle consumer stopped")
			return
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// processWithRetry handles msg until it succeeds, backing off between
// attempts. Later offsets are not fetched meanwhile, so a commit can never
// move the group past a message that still needs work. It returns false
// only when ctx ends first.
func processWithRetry(ctx context.Context, msg kafkago.Message, reconciler Reconciler, log *zap.Logger) bool {
	backoff := retryBackoff
	for attempt := 1; ; attempt++ {
		if handleMessage(ctx, msg, reconciler, log) {
			return true
		}

		log.Warn("retrying employee lifecycle message",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func handleMessage(ctx context.Context, msg kafkago.Message, reconciler Reconciler, log *zap.Logger) bool {
	var event events.EmployeeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return true
	}

	if !handles(event.EventType) {
		return true
	}

	err := reconciler.Reconcile(ctx, event.EmployeeID)
	switch {
	case err == nil:
		log.Info("employee reconciled from event",
			zap.String("event_type", event.EventType),
			zap.String("employee_id", event.EmployeeID),
			zap.String("request_id", event.RequestID),
		)
		return true
	case errors.Is(err, employeeerrors.ErrEmployeeNotFound):
		log.Warn("employee from event no longer exists, skipping",
			zap.String("employee_id", event.EmployeeID),
		)
		return true
	default:
		log.Error("reconcile employee failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("request_id", event.RequestID),
			zap.Error(err),
		)
		return false
	}
}
