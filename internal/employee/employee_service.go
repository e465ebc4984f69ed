package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	employeeerrors "go-tasktracker/internal/employee/errors"
	"go-tasktracker/internal/events"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/shared/contextutil"
	"go-tasktracker/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	OptionsCacheKey = "employees:options"
	optionsCacheTTL = time.Hour
)

// TaskCounter reports how many tasks reference an employee.
type TaskCounter interface {
	CountByAssignee(ctx context.Context, employeeID string) (int64, error)
	CountGroupedByAssignee(ctx context.Context) (map[string]int64, error)
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetApproved(ctx context.Context) ([]EmployeeResponse, error)
	GetPending(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	tasks   TaskCounter
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	tasks TaskCounter,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		tasks:   tasks,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	if req.EmpID == "" {
		next, err := s.counter.GetNextValue(ctx, counter.EmployeeNumber)
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmpID = fmt.Sprintf("EMP-%06d", next)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	empl := &Employee{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		EmpID:       req.EmpID,
		Department:  req.Department,
		RoleTitle:   req.RoleTitle,
		TasksInfo:   req.TasksInfo,
		ActionsInfo: req.ActionsInfo,
		Status:      StatusApproved,
	}

	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, MapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.EmployeeEvent{
		EventType:  events.EmployeeCreated,
		RequestID:  rid,
		EmployeeID: empl.ID.String(),
		Status:     empl.Status,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return ToResponse(*empl), nil
}

// GetApproved lists approved employees with the number of tasks assigned to each.
func (s *service) GetApproved(ctx context.Context) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindByStatus(ctx, StatusApproved)
	if err != nil {
		s.logger.Error("get approved employees failed", zap.Error(err))
		return nil, MapRepositoryError(err)
	}

	counts, err := s.tasks.CountGroupedByAssignee(ctx)
	if err != nil {
		s.logger.Error("count tasks by assignee failed", zap.Error(err))
		return nil, MapRepositoryError(err)
	}

	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = ToResponse(e)
		n := counts[e.ID.String()]
		resp[i].TaskCount = &n
	}
	return resp, nil
}

func (s *service) GetPending(ctx context.Context) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindByStatus(ctx, StatusPending)
	if err != nil {
		s.logger.Error("get pending employees failed", zap.Error(err))
		return nil, MapRepositoryError(err)
	}
	return ToListResponse(emps), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindByStatus(ctx, StatusApproved)
		if err != nil {
			return nil, MapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(emps))
		for i, e := range emps {
			resp[i] = EmployeeOption{ID: e.ID.String(), Name: e.Name, Email: e.Email, EmpID: e.EmpID}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, OptionsCacheKey, data, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, MapRepositoryError(err)
	}
	return ToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.IsEmpty() {
		return EmployeeResponse{}, employeeerrors.ErrEmptyUpdate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, MapRepositoryError(err)
	}

	applyUpdate(empl, req)

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, MapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return ToResponse(*empl), nil
}

// Delete removes the employee only. Tasks still assigned to it are left in
// place and reported in the log.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		return MapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return MapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.EmployeeEvent{
		EventType:  events.EmployeeDeleted,
		RequestID:  contextutil.GetRequestID(ctx),
		EmployeeID: id,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)

	orphaned, err := s.tasks.CountByAssignee(ctx, id)
	if err != nil {
		s.logger.Warn("count orphaned tasks failed", zap.String("employee_id", id), zap.Error(err))
	} else if orphaned > 0 {
		s.logger.Warn("deleted employee still referenced by tasks",
			zap.String("employee_id", id),
			zap.Int64("orphaned_tasks", orphaned),
		)
	}

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, evt events.EmployeeEvent) error {
	if s.outbox == nil {
		return nil
	}
	row, err := evt.Outbox()
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("event_type", evt.EventType), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, row); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("employee_id", evt.EmployeeID),
			zap.String("event_type", evt.EventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}

func applyUpdate(e *Employee, req UpdateEmployeeRequest) {
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.EmpID != nil {
		e.EmpID = *req.EmpID
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if req.RoleTitle != nil {
		e.RoleTitle = *req.RoleTitle
	}
	if req.TasksInfo != nil {
		e.TasksInfo = *req.TasksInfo
	}
	if req.ActionsInfo != nil {
		e.ActionsInfo = *req.ActionsInfo
	}
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Email:       e.Email,
		EmpID:       e.EmpID,
		Department:  e.Department,
		RoleTitle:   e.RoleTitle,
		TasksInfo:   e.TasksInfo,
		ActionsInfo: e.ActionsInfo,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.LinkedUserID != nil {
		id := e.LinkedUserID.String()
		resp.LinkedUser = &id
	}
	return resp
}

func ToListResponse(emps []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = ToResponse(e)
	}
	return resp
}
