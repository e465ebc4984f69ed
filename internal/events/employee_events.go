package events

import (
	"encoding/json"
	"time"

	"go-tasktracker/internal/messaging/kafka"

	"github.com/google/uuid"
)

const EmployeeLifecycleTopic = "tasktracker.employee.lifecycle.v1"

const (
	EmployeeCreated          = "employee.created"
	EmployeeApproved         = "employee.approved"
	EmployeeRejected         = "employee.rejected"
	EmployeeDeleted          = "employee.deleted"
	EmployeeProfileSubmitted = "employee.profile_submitted"
	// EmployeeReconcileRequested asks the consumer to copy the employee's
	// approval state onto its linked user after a partial write.
	EmployeeReconcileRequested = "employee.reconcile_requested"
)

type EmployeeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	UserID     string    `json:"user_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Outbox wraps the event into a pending outbox row keyed by employee id.
func (e EmployeeEvent) Outbox() (kafka.OutboxEvent, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafka.OutboxEvent{}, err
	}
	return kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     e.RequestID,
		AggregateType: kafka.AggregateEmployee,
		AggregateID:   e.EmployeeID,
		EventType:     e.EventType,
		Topic:         EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}, nil
}
