package user

import (
	"time"

	"go-tasktracker/internal/access"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name          string     `gorm:"column:name;type:varchar(255);not null"`
	Email         string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Password      string     `gorm:"column:password;type:text;not null"`
	Role          string     `gorm:"column:role;type:varchar(20);not null;default:user"`
	EmployeeID    *uuid.UUID `gorm:"column:employee_id;type:uuid;uniqueIndex"`
	IsApproved    bool       `gorm:"column:is_approved;not null;default:false"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	OAuthProvider string     `gorm:"column:oauth_provider;type:varchar(20)"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Employee *UserEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

// UserEmployee is the slice of the linked employee profile shown next to a user.
type UserEmployee struct {
	ID     uuid.UUID `gorm:"primaryKey"`
	Name   string    `gorm:"column:name"`
	EmpID  string    `gorm:"column:emp_id"`
	Status string    `gorm:"column:status"`
}

func (UserEmployee) TableName() string {
	return "employees"
}

// Subject snapshots the fields the access resolver decides on.
func (u *User) Subject() *access.Subject {
	return &access.Subject{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		LinkedEmployeeID: u.EmployeeID,
		IsApproved:       u.IsApproved,
	}
}
