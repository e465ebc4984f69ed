package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	approvalerrors "go-tasktracker/internal/approval/errors"
	"go-tasktracker/internal/employee"
	employeeerrors "go-tasktracker/internal/employee/errors"
	"go-tasktracker/internal/events"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/contextutil"
	"go-tasktracker/internal/shared/counter"
	"go-tasktracker/internal/shared/metrics"
	"go-tasktracker/internal/user"
	usererrors "go-tasktracker/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	actionApprove   = "approve"
	actionReject    = "reject"
	actionProfile   = "complete_profile"
	actionReconcile = "reconcile"
)

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Approve(ctx context.Context, employeeID string) (employee.EmployeeResponse, error)
	Reject(ctx context.Context, employeeID string) (employee.EmployeeResponse, error)
	CompleteProfile(ctx context.Context, userID string, req CompleteProfileRequest) (employee.EmployeeResponse, error)
	Reconcile(ctx context.Context, employeeID string) error
}

type service struct {
	db        *sql.DB
	employees employee.Repository
	users     user.Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService wires the approval workflow. With a nil db every write runs on
// its own and a user write failing after the employee write is reported as
// a partial failure.
func NewService(
	db *sql.DB,
	employees employee.Repository,
	users user.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	m *metrics.Metrics,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		db:        db,
		employees: employees,
		users:     users,
		counter:   counterRepo,
		outbox:    outboxRepo,
		metrics:   m,
		logger:    l,
	}
}

// unit groups the repositories of one workflow step. tx is nil when the
// service runs without a transactional handle.
type unit struct {
	tx        *sql.Tx
	employees employee.Repository
	users     user.Repository
	outbox    kafka.OutboxRepository
}

func (s *service) begin(ctx context.Context) (*unit, error) {
	if s.db == nil {
		return &unit{employees: s.employees, users: s.users, outbox: s.outbox}, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	u := &unit{tx: tx, employees: s.employees.WithTx(tx), users: s.users.WithTx(tx)}
	if s.outbox != nil {
		u.outbox = s.outbox.WithTx(tx)
	}
	return u, nil
}

func (u *unit) commit() error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit()
}

func (u *unit) rollback() {
	if u.tx != nil {
		_ = u.tx.Rollback()
	}
}

func (s *service) Approve(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	resp, err := s.transition(ctx, employeeID, employee.StatusApproved)
	s.record(actionApprove, err)
	return resp, err
}

// Reject blocks the profile. The linked user keeps its account and stays
// unapproved.
func (s *service) Reject(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	resp, err := s.transition(ctx, employeeID, employee.StatusRejected)
	s.record(actionReject, err)
	return resp, err
}

func (s *service) transition(ctx context.Context, employeeID, status string) (employee.EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	// a malformed id cannot name an existing employee
	if _, err := uuid.Parse(employeeID); err != nil {
		return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	w, err := s.begin(ctx)
	if err != nil {
		s.logger.Error("approval begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}
	defer w.rollback()

	empl, err := w.employees.FindByID(ctx, employeeID)
	if err != nil {
		return employee.EmployeeResponse{}, employee.MapRepositoryError(err)
	}

	empl.Status = status
	if err := w.employees.Update(ctx, empl); err != nil {
		s.logger.Error("approval update employee failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return employee.EmployeeResponse{}, employee.MapRepositoryError(err)
	}

	evt := events.EmployeeEvent{
		EventType:  events.EmployeeRejected,
		RequestID:  rid,
		EmployeeID: employeeID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}

	if status == employee.StatusApproved {
		evt.EventType = events.EmployeeApproved
		if empl.LinkedUserID != nil {
			evt.UserID = empl.LinkedUserID.String()
			if err := s.approveUser(ctx, w, empl.LinkedUserID.String()); err != nil {
				return employee.EmployeeResponse{}, s.userWriteFailed(ctx, w, empl, err)
			}
		}
	}

	if err := s.queue(ctx, w, evt); err != nil {
		if w.tx == nil {
			s.logger.Error("approval event lost after employee write",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
				zap.String("status", status),
			)
			return employee.EmployeeResponse{}, apperror.WrapAs(approvalerrors.ErrPartialFailure, err)
		}
		return employee.EmployeeResponse{}, err
	}

	if err := w.commit(); err != nil {
		s.logger.Error("approval commit failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}

	s.logger.Info("employee status changed",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return employee.ToResponse(*empl), nil
}

// approveUser marks the linked user approved. A linked id that no longer
// resolves to a user is skipped.
func (s *service) approveUser(ctx context.Context, w *unit, userID string) error {
	u, err := w.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("linked user missing", zap.String("user_id", userID))
		return nil
	}
	if err != nil {
		return err
	}
	if u.IsApproved {
		return nil
	}
	u.IsApproved = true
	return w.users.Update(ctx, u)
}

// userWriteFailed decides what a failed user write means. Inside a
// transaction the whole step is rolled back by the caller. Without one the
// employee write is already durable, so a reconcile event is queued and the
// caller gets ErrPartialFailure.
func (s *service) userWriteFailed(ctx context.Context, w *unit, empl *employee.Employee, cause error) error {
	if w.tx != nil {
		s.logger.Error("linked user update failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(cause),
		)
		return user.MapRepositoryError(cause)
	}

	s.logger.Error("linked user update failed after employee write",
		zap.String("employee_id", empl.ID.String()),
		zap.Error(cause),
	)
	evt := events.EmployeeEvent{
		EventType:  events.EmployeeReconcileRequested,
		RequestID:  contextutil.GetRequestID(ctx),
		EmployeeID: empl.ID.String(),
		Status:     empl.Status,
		Reason:     cause.Error(),
		OccurredAt: time.Now().UTC(),
	}
	if empl.LinkedUserID != nil {
		evt.UserID = empl.LinkedUserID.String()
	}
	if err := s.queue(ctx, w, evt); err != nil {
		s.logger.Error("queue reconcile event failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
	}
	return apperror.WrapAs(approvalerrors.ErrPartialFailure, cause)
}

func (s *service) CompleteProfile(ctx context.Context, userID string, req CompleteProfileRequest) (employee.EmployeeResponse, error) {
	resp, err := s.completeProfile(ctx, userID, req)
	s.record(actionProfile, err)
	return resp, err
}

func (s *service) completeProfile(ctx context.Context, userID string, req CompleteProfileRequest) (employee.EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	uid, err := uuid.Parse(userID)
	if err != nil {
		return employee.EmployeeResponse{}, usererrors.ErrInvalidUserID
	}

	existing, err := s.employees.FindByLinkedUser(ctx, userID)
	switch {
	case err == nil && existing != nil:
		return employee.EmployeeResponse{}, employeeerrors.ErrProfileAlreadySubmitted
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return employee.EmployeeResponse{}, employee.MapRepositoryError(err)
	}

	if strings.TrimSpace(req.EmpID) == "" && s.counter != nil {
		next, err := s.counter.GetNextValue(ctx, counter.EmployeeNumber)
		if err != nil {
			s.logger.Error("complete profile generate number failed", zap.Error(err))
			return employee.EmployeeResponse{}, err
		}
		req.EmpID = fmt.Sprintf("EMP-%06d", next)
	}

	w, err := s.begin(ctx)
	if err != nil {
		s.logger.Error("complete profile begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}
	defer w.rollback()

	u, err := w.users.FindByID(ctx, userID)
	if err != nil {
		return employee.EmployeeResponse{}, user.MapRepositoryError(err)
	}

	email := req.Email
	if email == "" {
		email = u.Email
	}

	empl := &employee.Employee{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		EmpID:        req.EmpID,
		Department:   req.Department,
		RoleTitle:    req.RoleTitle,
		TasksInfo:    req.TasksInfo,
		ActionsInfo:  req.ActionsInfo,
		Status:       employee.StatusPending,
		LinkedUserID: &uid,
	}
	if err := w.employees.Create(ctx, empl); err != nil {
		s.logger.Error("complete profile persist failed", zap.String("user_id", userID), zap.Error(err))
		return employee.EmployeeResponse{}, employee.MapRepositoryError(err)
	}

	u.EmployeeID = &empl.ID
	if err := w.users.Update(ctx, u); err != nil {
		return employee.EmployeeResponse{}, s.userWriteFailed(ctx, w, empl, err)
	}

	if err := s.queue(ctx, w, events.EmployeeEvent{
		EventType:  events.EmployeeProfileSubmitted,
		RequestID:  rid,
		EmployeeID: empl.ID.String(),
		UserID:     userID,
		Status:     empl.Status,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := w.commit(); err != nil {
		s.logger.Error("complete profile commit failed", zap.String("request_id", rid), zap.Error(err))
		return employee.EmployeeResponse{}, err
	}

	s.logger.Info("profile submitted",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("employee_id", empl.ID.String()),
	)
	return employee.ToResponse(*empl), nil
}

// Reconcile copies the employee side of the link onto its user: the
// back-reference, and isApproved once the employee is approved. It never
// revokes approval.
func (s *service) Reconcile(ctx context.Context, employeeID string) error {
	err := s.reconcile(ctx, employeeID)
	s.record(actionReconcile, err)
	return err
}

func (s *service) reconcile(ctx context.Context, employeeID string) error {
	empl, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return employee.MapRepositoryError(err)
	}
	if empl.LinkedUserID == nil {
		return nil
	}

	u, err := s.users.FindByID(ctx, empl.LinkedUserID.String())
	if err != nil {
		return user.MapRepositoryError(err)
	}

	changed := false
	if u.EmployeeID == nil || *u.EmployeeID != empl.ID {
		id := empl.ID
		u.EmployeeID = &id
		changed = true
	}
	if empl.Status == employee.StatusApproved && !u.IsApproved {
		u.IsApproved = true
		changed = true
	}
	if !changed {
		return nil
	}

	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("reconcile user failed",
			zap.String("employee_id", employeeID),
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
		return user.MapRepositoryError(err)
	}

	s.logger.Info("user reconciled",
		zap.String("employee_id", employeeID),
		zap.String("user_id", u.ID.String()),
		zap.Bool("is_approved", u.IsApproved),
	)
	return nil
}

func (s *service) queue(ctx context.Context, w *unit, evt events.EmployeeEvent) error {
	if w.outbox == nil {
		return nil
	}
	row, err := evt.Outbox()
	if err != nil {
		return err
	}
	if err := w.outbox.Create(ctx, row); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("employee_id", evt.EmployeeID),
			zap.String("event_type", evt.EventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) record(action string, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, approvalerrors.ErrPartialFailure):
		outcome = "partial"
	case err != nil:
		outcome = "error"
	}
	s.metrics.RecordApproval(action, outcome)
}
