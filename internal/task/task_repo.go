package task

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	Status     string
	EmployeeID string
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context, filter Filter) ([]Task, error)
	FindByAssignee(ctx context.Context, employeeID string) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountGroupedByStatus(ctx context.Context) ([]StatusCount, error)
	CountByAssignee(ctx context.Context, employeeID string) (int64, error)
	CountGroupedByAssignee(ctx context.Context) (map[string]int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.conn(ctx).Omit(clause.Associations).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := r.conn(ctx).
		Preload("Assignee").
		Preload("Creator").
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Task, error) {
	var tasks []Task
	q := r.conn(ctx).
		Preload("Assignee").
		Preload("Creator")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		q = q.Where("assigned_to = ?", filter.EmployeeID)
	}
	err := q.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

// FindByAssignee loads the bare task rows of one employee for scoring.
func (r *repository) FindByAssignee(ctx context.Context, employeeID string) ([]Task, error) {
	var tasks []Task
	err := r.conn(ctx).
		Where("assigned_to = ?", employeeID).
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.conn(ctx).Omit(clause.Associations).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Delete(&Task{}, "id = ?", id).Error
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&Task{}).Count(&n).Error
	return n, err
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&Task{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *repository) CountGroupedByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.conn(ctx).
		Model(&Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountByAssignee(ctx context.Context, employeeID string) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&Task{}).Where("assigned_to = ?", employeeID).Count(&n).Error
	return n, err
}

func (r *repository) CountGroupedByAssignee(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		AssignedTo uuid.UUID
		Count      int64
	}
	err := r.conn(ctx).
		Model(&Task{}).
		Select("assigned_to, COUNT(*) AS count").
		Group("assigned_to").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.AssignedTo.String()] = row.Count
	}
	return counts, nil
}
