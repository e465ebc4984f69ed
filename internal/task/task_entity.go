package task

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"

	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null;default:TODO;index"`
	Priority    string    `gorm:"type:varchar(10);not null;default:MEDIUM"`
	DueDate     time.Time `gorm:"not null"`
	AssignedTo  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Assignee *TaskEmployee `gorm:"foreignKey:AssignedTo;references:ID"`
	Creator  *TaskUser     `gorm:"foreignKey:CreatedBy;references:ID"`
}

// TaskEmployee is the minimal employee projection joined onto a task.
type TaskEmployee struct {
	ID    uuid.UUID `gorm:"primaryKey"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
}

func (TaskEmployee) TableName() string {
	return "employees"
}

// TaskUser is the minimal user projection joined onto a task.
type TaskUser struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"column:name"`
}

func (TaskUser) TableName() string {
	return "users"
}

// IsOpen reports whether the task still counts towards an employee's load.
func (t Task) IsOpen() bool {
	return t.Status != StatusDone
}

// IsOverdue reports whether an open task is past its due date at now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.IsOpen() && t.DueDate.Before(now)
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
