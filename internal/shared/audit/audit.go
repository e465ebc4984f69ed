package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const (
	ActionServerShutdown   = "SERVER_SHUTDOWN"
	ActionEmployeeApproved = "EMPLOYEE_APPROVED"
	ActionEmployeeRejected = "EMPLOYEE_REJECTED"
	ActionEmployeeDeleted  = "EMPLOYEE_DELETED"
)

const collectionName = "audit_logs"

type Entry struct {
	Action  string         `bson:"action"`
	Message string         `bson:"message"`
	ActorID string         `bson:"actor_id,omitempty"`
	Meta    map[string]any `bson:"meta,omitempty"`
	At      time.Time      `bson:"at"`
}

// Logger never fails the caller. Write errors are logged and dropped.
type Logger interface {
	Log(ctx context.Context, entry Entry)
}

type StdoutLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l, now: time.Now}
}

func (l *StdoutLogger) Log(_ context.Context, entry Entry) {
	if entry.At.IsZero() {
		entry.At = l.now().UTC()
	}
	l.logger.Info("audit event",
		zap.String("timestamp", entry.At.Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("actor_id", entry.ActorID),
		zap.Any("meta", entry.Meta),
	)
}

// MongoLogger persists entries to the audit_logs collection and mirrors
// them to stdout when the insert fails.
type MongoLogger struct {
	col      *mongo.Collection
	fallback *StdoutLogger
	timeout  time.Duration
}

func NewMongoLogger(db *mongo.Database, logger ...*zap.Logger) *MongoLogger {
	return &MongoLogger{
		col:      db.Collection(collectionName),
		fallback: NewStdoutLogger(logger...),
		timeout:  3 * time.Second,
	}
}

func (l *MongoLogger) Log(ctx context.Context, entry Entry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	// the entry outlives a cancelled request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	if _, err := l.col.InsertOne(ctx, entry); err != nil {
		l.fallback.logger.Warn("persist audit entry failed", zap.String("action", entry.Action), zap.Error(err))
		l.fallback.Log(ctx, entry)
	}
}
