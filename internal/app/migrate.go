package app

import (
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/rbac"
	"go-tasktracker/internal/task"
	"go-tasktracker/internal/user"

	"gorm.io/gorm"
)

var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS counters (
		counter_type VARCHAR(50) PRIMARY KEY,
		last_value BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		request_id VARCHAR(100),
		aggregate_type VARCHAR(50) NOT NULL,
		aggregate_id UUID NOT NULL,
		event_type VARCHAR(100) NOT NULL,
		topic VARCHAR(200) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMPTZ,
		error_message TEXT,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending
		ON outbox_events (aggregate_type, status, next_retry_at, created_at)`,
}

// Migrate creates or updates every table the services use.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&user.User{},
		&employee.Employee{},
		&task.Task{},
		&rbac.Policy{},
	); err != nil {
		return err
	}
	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
