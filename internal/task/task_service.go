package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/contextutil"
	taskerrors "go-tasktracker/internal/task/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssigneeLookup resolves the employee a task is assigned to.
type AssigneeLookup interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor *access.Subject, req CreateTaskRequest) (TaskResponse, error)
	GetAll(ctx context.Context, filter Filter) ([]TaskResponse, error)
	GetMine(ctx context.Context, actor *access.Subject) ([]TaskResponse, error)
	Update(ctx context.Context, actor *access.Subject, id string, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	assignees AssigneeLookup
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, assignees AssigneeLookup, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		assignees: assignees,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor *access.Subject, req CreateTaskRequest) (TaskResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if actor == nil {
		return TaskResponse{}, apperror.ErrUnauthorized
	}

	assignee, err := s.lookupAssignee(ctx, req.AssignedTo)
	if err != nil {
		return TaskResponse{}, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusTodo,
		Priority:    priority,
		DueDate:     req.DueDate,
		AssignedTo:  assignee.ID,
		CreatedBy:   actor.ID,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create task persist failed", zap.String("request_id", rid), zap.Error(err))
		return TaskResponse{}, MapRepositoryError(err)
	}

	t.Assignee = &TaskEmployee{ID: assignee.ID, Name: assignee.Name, Email: assignee.Email}
	t.Creator = &TaskUser{ID: actor.ID, Name: actor.Name}

	s.logger.Info("create task success",
		zap.String("request_id", rid),
		zap.String("task_id", t.ID.String()),
		zap.String("assigned_to", t.AssignedTo.String()),
	)
	return ToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, filter Filter) ([]TaskResponse, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, taskerrors.ErrInvalidStatus
	}
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, apperror.InvalidField("employeeId")
		}
	}

	tasks, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get tasks failed", zap.Error(err))
		return nil, MapRepositoryError(err)
	}
	return ToListResponse(tasks), nil
}

func (s *service) GetMine(ctx context.Context, actor *access.Subject) ([]TaskResponse, error) {
	if !actor.HasEmployee() {
		return nil, taskerrors.ErrNotLinked
	}

	tasks, err := s.repo.FindAll(ctx, Filter{EmployeeID: actor.LinkedEmployeeID.String()})
	if err != nil {
		s.logger.Error("get my tasks failed", zap.String("user_id", actor.ID.String()), zap.Error(err))
		return nil, MapRepositoryError(err)
	}
	return ToListResponse(tasks), nil
}

// Update lets admins change any field. Other callers may change only the
// status, and only on a task assigned to their linked employee.
func (s *service) Update(ctx context.Context, actor *access.Subject, id string, req UpdateTaskRequest) (TaskResponse, error) {
	if actor == nil {
		return TaskResponse{}, apperror.ErrUnauthorized
	}
	if _, err := uuid.Parse(id); err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}
	if req.IsEmpty() {
		return TaskResponse{}, taskerrors.ErrEmptyUpdate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update task begin tx failed", zap.Error(err))
		return TaskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TaskResponse{}, MapRepositoryError(err)
	}

	if !actor.IsAdmin() {
		if !actor.HasEmployee() || *actor.LinkedEmployeeID != t.AssignedTo {
			return TaskResponse{}, taskerrors.ErrNotAssignee
		}
		if !req.StatusOnly() {
			return TaskResponse{}, taskerrors.ErrStatusOnly
		}
	}

	if req.AssignedTo != nil && *req.AssignedTo != t.AssignedTo.String() {
		assignee, err := s.lookupAssignee(ctx, *req.AssignedTo)
		if err != nil {
			return TaskResponse{}, err
		}
		t.AssignedTo = assignee.ID
		t.Assignee = &TaskEmployee{ID: assignee.ID, Name: assignee.Name, Email: assignee.Email}
	}
	applyUpdate(t, req)

	if err := qtx.Update(ctx, t); err != nil {
		s.logger.Error("update task persist failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, MapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update task commit failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("update task success",
		zap.String("task_id", id),
		zap.String("status", t.Status),
		zap.Bool("by_admin", actor.IsAdmin()),
	)
	return ToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return taskerrors.ErrInvalidTaskID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete task begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		return MapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete task failed", zap.String("task_id", id), zap.Error(err))
		return MapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete task commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete task success", zap.String("task_id", id))
	return nil
}

func (s *service) lookupAssignee(ctx context.Context, id string) (*employee.Employee, error) {
	e, err := s.assignees.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, taskerrors.ErrAssigneeNotFound
	}
	if err != nil {
		return nil, MapRepositoryError(err)
	}
	return e, nil
}

func applyUpdate(t *Task, req UpdateTaskRequest) {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
}

func ToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate.UTC().Format(time.RFC3339),
		AssignedTo:  TaskRef{ID: t.AssignedTo.String()},
		CreatedBy:   TaskRef{ID: t.CreatedBy.String()},
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.Assignee != nil {
		resp.AssignedTo.Name = t.Assignee.Name
		resp.AssignedTo.Email = t.Assignee.Email
	}
	if t.Creator != nil {
		resp.CreatedBy.Name = t.Creator.Name
	}
	return resp
}

func ToListResponse(tasks []Task) []TaskResponse {
	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = ToResponse(t)
	}
	return resp
}
