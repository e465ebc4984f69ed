package approval_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-tasktracker/internal/approval"
	approvalerrors "go-tasktracker/internal/approval/errors"
	"go-tasktracker/internal/employee"
	employeeerrors "go-tasktracker/internal/employee/errors"
	"go-tasktracker/internal/events"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/shared/metrics"
	"go-tasktracker/internal/user"

	employeeMock "go-tasktracker/internal/employee/mock"
	kafkaMock "go-tasktracker/internal/messaging/kafka/mock"
	counterMock "go-tasktracker/internal/shared/counter/mock"
	userMock "go-tasktracker/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   approval.Service
	employees *employeeMock.MockRepository
	users     *userMock.MockRepository
	counter   *counterMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	metrics   *metrics.Metrics
}

// setupServiceTest builds the service over sqlmock. With transactional=false
// the service gets no *sql.DB and writes run one by one.
func setupServiceTest(t *testing.T, transactional bool) *serviceDeps {
	ctrl := gomock.NewController(t)

	var db *sql.DB
	mockDB, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { mockDB.Close() })
	db = mockDB

	deps := &serviceDeps{
		sqlMock:   sqlMock,
		employees: employeeMock.NewMockRepository(ctrl),
		users:     userMock.NewMockRepository(ctrl),
		counter:   counterMock.NewMockRepository(ctrl),
		outbox:    kafkaMock.NewMockOutboxRepository(ctrl),
		metrics:   metrics.New(prometheus.NewRegistry()),
	}

	if !transactional {
		db = nil
	}
	deps.service = approval.NewService(db, deps.employees, deps.users, deps.counter, deps.outbox, deps.metrics)
	return deps
}

func (d *serviceDeps) expectTx(commit bool) {
	d.sqlMock.ExpectBegin()
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees)
	d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox)
	if commit {
		d.sqlMock.ExpectCommit()
	} else {
		d.sqlMock.ExpectRollback()
	}
}

func pendingEmployee(linked *uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:           uuid.New(),
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		EmpID:        "EMP-000001",
		Status:       employee.StatusPending,
		LinkedUserID: linked,
	}
}

func TestApprovalService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("success approves linked user in one transaction", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		empl := pendingEmployee(&userID)
		u := &user.User{ID: userID, Email: "jane@example.com", Role: "user", EmployeeID: &empl.ID}

		d.expectTx(true)
		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.StatusApproved, e.Status)
				return nil
			})
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(u, nil)
		d.users.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, got *user.User) error {
				assert.True(t, got.IsApproved)
				return nil
			})
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, evt kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeApproved, evt.EventType)
				assert.Equal(t, events.EmployeeLifecycleTopic, evt.Topic)
				assert.Equal(t, empl.ID.String(), evt.AggregateID)
				return nil
			})

		resp, err := d.service.Approve(ctx, empl.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusApproved, resp.Status)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.ApprovalTransitions.WithLabelValues("approve", "success")))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("already approved is idempotent", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		empl := pendingEmployee(&userID)
		empl.Status = employee.StatusApproved
		u := &user.User{ID: userID, IsApproved: true, EmployeeID: &empl.ID}

		d.expectTx(true)
		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, empl).Return(nil)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(u, nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := d.service.Approve(ctx, empl.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusApproved, resp.Status)
		assert.True(t, u.IsApproved)
	})

	t.Run("employee without linked user", func(t *testing.T) {
		d := setupServiceTest(t, true)
		empl := pendingEmployee(nil)

		d.expectTx(true)
		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, empl).Return(nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := d.service.Approve(ctx, empl.ID.String())

		assert.NoError(t, err)
		assert.Nil(t, resp.LinkedUser)
	})

	t.Run("not found", func(t *testing.T) {
		d := setupServiceTest(t, true)
		id := uuid.NewString()

		d.expectTx(false)
		d.employees.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Approve(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.ApprovalTransitions.WithLabelValues("approve", "error")))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		d := setupServiceTest(t, true)

		_, err := d.service.Approve(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("user write failure rolls back the transaction", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		empl := pendingEmployee(&userID)

		d.expectTx(false)
		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, empl).Return(nil)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(&user.User{ID: userID}, nil)
		d.users.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("write failed"))

		_, err := d.service.Approve(ctx, empl.ID.String())

		assert.Error(t, err)
		assert.False(t, errors.Is(err, approvalerrors.ErrPartialFailure))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("partial failure without transaction queues reconcile", func(t *testing.T) {
		d := setupServiceTest(t, false)
		userID := uuid.New()
		empl := pendingEmployee(&userID)

		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, empl).Return(nil)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(&user.User{ID: userID}, nil)
		d.users.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("write failed"))
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, evt kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeReconcileRequested, evt.EventType)
				assert.Contains(t, string(evt.Payload), userID.String())
				return nil
			})

		_, err := d.service.Approve(ctx, empl.ID.String())

		assert.ErrorIs(t, err, approvalerrors.ErrPartialFailure)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.ApprovalTransitions.WithLabelValues("approve", "partial")))
	})
}

func TestApprovalService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success leaves user untouched", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		empl := pendingEmployee(&userID)

		d.expectTx(true)
		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.StatusRejected, e.Status)
				return nil
			})
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, evt kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeRejected, evt.EventType)
				return nil
			})

		resp, err := d.service.Reject(ctx, empl.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusRejected, resp.Status)
		assert.NotNil(t, resp.LinkedUser)
	})

	t.Run("not found", func(t *testing.T) {
		d := setupServiceTest(t, true)
		id := uuid.NewString()

		d.expectTx(false)
		d.employees.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Reject(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		d := setupServiceTest(t, true)
		empl := pendingEmployee(nil)

		d.expectTx(false)
		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, empl).Return(nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))

		_, err := d.service.Reject(ctx, empl.ID.String())

		assert.Error(t, err)
		assert.False(t, errors.Is(err, approvalerrors.ErrPartialFailure))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure after a durable write is partial", func(t *testing.T) {
		d := setupServiceTest(t, false)
		empl := pendingEmployee(nil)

		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.employees.EXPECT().Update(ctx, empl).Return(nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))

		_, err := d.service.Reject(ctx, empl.ID.String())

		assert.ErrorIs(t, err, approvalerrors.ErrPartialFailure)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.ApprovalTransitions.WithLabelValues("reject", "partial")))
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		d := setupServiceTest(t, true)

		_, err := d.service.Reject(ctx, "42")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestApprovalService_CompleteProfile(t *testing.T) {
	ctx := context.Background()
	req := approval.CompleteProfileRequest{
		Name:       "Jane Doe",
		Department: "Engineering",
		RoleTitle:  "Developer",
	}

	t.Run("success links both directions", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		u := &user.User{ID: userID, Email: "jane@example.com", Role: "user"}
		var created *employee.Employee

		d.employees.EXPECT().FindByLinkedUser(ctx, userID.String()).Return(nil, gorm.ErrRecordNotFound)
		d.counter.EXPECT().GetNextValue(ctx, "employee_number").Return(int64(7), nil)
		d.expectTx(true)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(u, nil)
		d.employees.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, e *employee.Employee) error {
				created = e
				return nil
			})
		d.users.EXPECT().Update(ctx, u).Return(nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, evt kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeProfileSubmitted, evt.EventType)
				return nil
			})

		resp, err := d.service.CompleteProfile(ctx, userID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusPending, resp.Status)
		assert.Equal(t, "EMP-000007", resp.EmpID)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, userID.String(), *resp.LinkedUser)
		if assert.NotNil(t, u.EmployeeID) {
			assert.Equal(t, created.ID, *u.EmployeeID)
		}
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate submission", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()

		d.employees.EXPECT().FindByLinkedUser(ctx, userID.String()).Return(pendingEmployee(&userID), nil)

		_, err := d.service.CompleteProfile(ctx, userID.String(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrProfileAlreadySubmitted)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit empId skips the counter", func(t *testing.T) {
		d := setupServiceTest(t, false)
		userID := uuid.New()
		withID := req
		withID.EmpID = "E-42"
		withID.Email = "work@example.com"

		d.employees.EXPECT().FindByLinkedUser(ctx, userID.String()).Return(nil, gorm.ErrRecordNotFound)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(&user.User{ID: userID, Email: "jane@example.com"}, nil)
		d.employees.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		d.users.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := d.service.CompleteProfile(ctx, userID.String(), withID)

		assert.NoError(t, err)
		assert.Equal(t, "E-42", resp.EmpID)
		assert.Equal(t, "work@example.com", resp.Email)
	})

	t.Run("invalid user id", func(t *testing.T) {
		d := setupServiceTest(t, true)

		_, err := d.service.CompleteProfile(ctx, "nope", req)

		assert.Error(t, err)
	})
}

func TestApprovalService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("approved employee approves user", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		empl := pendingEmployee(&userID)
		empl.Status = employee.StatusApproved
		u := &user.User{ID: userID}

		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(u, nil)
		d.users.EXPECT().Update(ctx, u).Return(nil)

		err := d.service.Reconcile(ctx, empl.ID.String())

		assert.NoError(t, err)
		assert.True(t, u.IsApproved)
		assert.Equal(t, empl.ID, *u.EmployeeID)
	})

	t.Run("already consistent is a no-op", func(t *testing.T) {
		d := setupServiceTest(t, true)
		userID := uuid.New()
		empl := pendingEmployee(&userID)
		u := &user.User{ID: userID, EmployeeID: &empl.ID}

		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)
		d.users.EXPECT().FindByID(ctx, userID.String()).Return(u, nil)

		assert.NoError(t, d.service.Reconcile(ctx, empl.ID.String()))
		assert.False(t, u.IsApproved)
	})

	t.Run("unlinked employee", func(t *testing.T) {
		d := setupServiceTest(t, true)
		empl := pendingEmployee(nil)

		d.employees.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)

		assert.NoError(t, d.service.Reconcile(ctx, empl.ID.String()))
	})
}
