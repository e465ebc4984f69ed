package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	EmpID        string     `gorm:"column:emp_id;type:varchar(50);uniqueIndex:uq_employee_emp_id"`
	Department   string     `gorm:"type:varchar(100)"`
	RoleTitle    string     `gorm:"column:role_title;type:varchar(100)"`
	TasksInfo    string     `gorm:"column:tasks_info;type:text"`
	ActionsInfo  string     `gorm:"column:actions_info;type:text"`
	Status       string     `gorm:"type:varchar(20);not null;default:approved;index"`
	LinkedUserID *uuid.UUID `gorm:"column:linked_user_id;type:uuid;uniqueIndex:uq_employee_linked_user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
