package app

import (
	"context"
	"errors"
	"time"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/config"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/task"
	"go-tasktracker/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	SeedAdminEmail = "admin@tasktracker.local"
	SeedUserEmail  = "jane@tasktracker.local"
	seedPassword   = "password123"
)

// Seed inserts a demo admin, two approved employees, a user linked to the
// first one and two tasks. It does nothing when the admin already exists.
func Seed(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	err := db.WithContext(ctx).Where("email = ?", SeedAdminEmail).First(&user.User{}).Error
	if err == nil {
		logger.Info("seed data already present, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{ID: uuid.New(), Name: "Admin", Email: SeedAdminEmail, Password: string(hash), Role: access.RoleAdmin, IsApproved: true}
	jane := employee.Employee{ID: uuid.New(), Name: "Jane Doe", Email: SeedUserEmail, EmpID: "EMP-000001", Department: "Engineering", RoleTitle: "Developer", Status: employee.StatusApproved}
	john := employee.Employee{ID: uuid.New(), Name: "John Smith", Email: "john@tasktracker.local", EmpID: "EMP-000002", Department: "Operations", RoleTitle: "Analyst", Status: employee.StatusApproved}
	member := user.User{ID: uuid.New(), Name: jane.Name, Email: SeedUserEmail, Password: string(hash), Role: access.RoleUser, EmployeeID: &jane.ID, IsApproved: true}
	jane.LinkedUserID = &member.ID

	now := time.Now().UTC()
	tasks := []task.Task{
		{ID: uuid.New(), Title: "Prepare onboarding checklist", Status: task.StatusInProgress, Priority: task.PriorityHigh, DueDate: now.AddDate(0, 0, 3), AssignedTo: jane.ID, CreatedBy: admin.ID},
		{ID: uuid.New(), Title: "Review quarterly report", Status: task.StatusTodo, Priority: task.PriorityMedium, DueDate: now.AddDate(0, 0, -1), AssignedTo: john.ID, CreatedBy: admin.ID},
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range []*user.User{&admin, &member} {
			if err := tx.Omit("Employee").Create(u).Error; err != nil {
				return err
			}
		}
		for _, e := range []*employee.Employee{&jane, &john} {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec(`INSERT INTO counters (counter_type, last_value, updated_at) VALUES ('employee_number', 2, now())
			ON CONFLICT (counter_type) DO UPDATE SET last_value = GREATEST(counters.last_value, 2)`).Error; err != nil {
			return err
		}
		return tx.Omit("Assignee", "Creator").Create(&tasks).Error
	})
	if err != nil {
		return err
	}

	logger.Info("seed data created",
		zap.String("admin_email", SeedAdminEmail),
		zap.String("user_email", SeedUserEmail),
		zap.Int("tasks", len(tasks)),
	)
	return nil
}

// RunSeed migrates the schema and inserts the demo data.
func RunSeed(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	in, err := Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := Migrate(in.GormDB); err != nil {
		return err
	}
	return Seed(ctx, in.GormDB, logger.Named("app.seed"))
}
