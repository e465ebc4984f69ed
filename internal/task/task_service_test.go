package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/task"
	taskerrors "go-tasktracker/internal/task/errors"
	taskMock "go-tasktracker/internal/task/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	service   task.Service
	repo      *taskMock.MockRepository
	assignees *taskMock.MockAssigneeLookup
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { db.Close() })
	repo := taskMock.NewMockRepository(ctrl)
	assignees := taskMock.NewMockAssigneeLookup(ctrl)

	return &serviceDeps{
		sqlMock:   sqlMock,
		service:   task.NewService(db, repo, assignees),
		repo:      repo,
		assignees: assignees,
	}
}

func admin() *access.Subject {
	return &access.Subject{ID: uuid.New(), Name: "Admin", Role: access.RoleAdmin, IsApproved: true}
}

func member(employeeID uuid.UUID) *access.Subject {
	return &access.Subject{ID: uuid.New(), Name: "Jane", Role: access.RoleUser, LinkedEmployeeID: &employeeID, IsApproved: true}
}

func ptr[T any](v T) *T { return &v }

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	assignee := &employee.Employee{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	req := task.CreateTaskRequest{
		Title:      "Write report",
		DueDate:    time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		AssignedTo: assignee.ID.String(),
	}

	t.Run("success defaults status and priority", func(t *testing.T) {
		d := setupServiceTest(t)
		actor := admin()

		d.assignees.EXPECT().FindByID(ctx, assignee.ID.String()).Return(assignee, nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tk *task.Task) error {
				assert.Equal(t, task.StatusTodo, tk.Status)
				assert.Equal(t, task.PriorityMedium, tk.Priority)
				assert.Equal(t, actor.ID, tk.CreatedBy)
				return nil
			})

		resp, err := d.service.Create(ctx, actor, req)

		assert.NoError(t, err)
		assert.Equal(t, "TODO", resp.Status)
		assert.Equal(t, "Jane Doe", resp.AssignedTo.Name)
		assert.Equal(t, "Admin", resp.CreatedBy.Name)
		assert.Equal(t, "2026-11-01T00:00:00Z", resp.DueDate)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		d := setupServiceTest(t)

		d.assignees.EXPECT().FindByID(ctx, assignee.ID.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Create(ctx, admin(), req)

		assert.ErrorIs(t, err, taskerrors.ErrAssigneeNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		d := setupServiceTest(t)

		d.assignees.EXPECT().FindByID(ctx, assignee.ID.String()).Return(assignee, nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))

		_, err := d.service.Create(ctx, admin(), req)

		assert.Error(t, err)
	})
}

func TestTaskService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("filters pass through", func(t *testing.T) {
		d := setupServiceTest(t)
		empID := uuid.NewString()
		filter := task.Filter{Status: task.StatusDone, EmployeeID: empID}

		d.repo.EXPECT().FindAll(ctx, filter).Return([]task.Task{{ID: uuid.New(), Status: task.StatusDone}}, nil)

		resp, err := d.service.GetAll(ctx, filter)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("invalid status", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.GetAll(ctx, task.Filter{Status: "BLOCKED"})

		assert.ErrorIs(t, err, taskerrors.ErrInvalidStatus)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.GetAll(ctx, task.Filter{EmployeeID: "x"})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	})
}

func TestTaskService_GetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("linked user", func(t *testing.T) {
		d := setupServiceTest(t)
		empID := uuid.New()

		d.repo.EXPECT().FindAll(ctx, task.Filter{EmployeeID: empID.String()}).
			Return([]task.Task{{ID: uuid.New(), AssignedTo: empID}}, nil)

		resp, err := d.service.GetMine(ctx, member(empID))

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, empID.String(), resp[0].AssignedTo.ID)
	})

	t.Run("not linked", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.GetMine(ctx, &access.Subject{ID: uuid.New(), Role: access.RoleUser})

		assert.ErrorIs(t, err, taskerrors.ErrNotLinked)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	existing := func(assignedTo uuid.UUID) *task.Task {
		return &task.Task{
			ID:         uuid.New(),
			Title:      "Write report",
			Status:     task.StatusTodo,
			Priority:   task.PriorityMedium,
			AssignedTo: assignedTo,
		}
	}

	t.Run("assigned user changes status", func(t *testing.T) {
		d := setupServiceTest(t)
		empID := uuid.New()
		tk := existing(empID)

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectCommit()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, tk.ID.String()).Return(tk, nil)
		d.repo.EXPECT().Update(ctx, tk).Return(nil)

		resp, err := d.service.Update(ctx, member(empID), tk.ID.String(), task.UpdateTaskRequest{Status: ptr(task.StatusInProgress)})

		assert.NoError(t, err)
		assert.Equal(t, task.StatusInProgress, resp.Status)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("user on someone else's task", func(t *testing.T) {
		d := setupServiceTest(t)
		tk := existing(uuid.New())

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, tk.ID.String()).Return(tk, nil)

		_, err := d.service.Update(ctx, member(uuid.New()), tk.ID.String(), task.UpdateTaskRequest{Status: ptr(task.StatusDone)})

		assert.ErrorIs(t, err, taskerrors.ErrNotAssignee)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("user changing priority is forbidden", func(t *testing.T) {
		d := setupServiceTest(t)
		empID := uuid.New()
		tk := existing(empID)

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, tk.ID.String()).Return(tk, nil)

		_, err := d.service.Update(ctx, member(empID), tk.ID.String(), task.UpdateTaskRequest{Priority: ptr(task.PriorityHigh)})

		assert.ErrorIs(t, err, taskerrors.ErrStatusOnly)
	})

	t.Run("user sending status with other fields is forbidden", func(t *testing.T) {
		d := setupServiceTest(t)
		empID := uuid.New()
		tk := existing(empID)

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, tk.ID.String()).Return(tk, nil)

		_, err := d.service.Update(ctx, member(empID), tk.ID.String(), task.UpdateTaskRequest{
			Status: ptr(task.StatusDone),
			Title:  ptr("renamed"),
		})

		assert.ErrorIs(t, err, taskerrors.ErrStatusOnly)
		assert.Equal(t, task.StatusTodo, tk.Status)
	})

	t.Run("admin reassigns and reprioritises", func(t *testing.T) {
		d := setupServiceTest(t)
		tk := existing(uuid.New())
		next := &employee.Employee{ID: uuid.New(), Name: "John"}

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectCommit()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, tk.ID.String()).Return(tk, nil)
		d.assignees.EXPECT().FindByID(ctx, next.ID.String()).Return(next, nil)
		d.repo.EXPECT().Update(ctx, tk).Return(nil)

		resp, err := d.service.Update(ctx, admin(), tk.ID.String(), task.UpdateTaskRequest{
			Priority:   ptr(task.PriorityHigh),
			AssignedTo: ptr(next.ID.String()),
		})

		assert.NoError(t, err)
		assert.Equal(t, task.PriorityHigh, resp.Priority)
		assert.Equal(t, next.ID.String(), resp.AssignedTo.ID)
		assert.Equal(t, "John", resp.AssignedTo.Name)
	})

	t.Run("not found", func(t *testing.T) {
		d := setupServiceTest(t)
		id := uuid.NewString()

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectRollback()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Update(ctx, admin(), id, task.UpdateTaskRequest{Status: ptr(task.StatusDone)})

		assert.ErrorIs(t, err, taskerrors.ErrTaskNotFound)
	})

	t.Run("empty body", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Update(ctx, admin(), uuid.NewString(), task.UpdateTaskRequest{})

		assert.ErrorIs(t, err, taskerrors.ErrEmptyUpdate)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupServiceTest(t)
		id := uuid.NewString()

		d.sqlMock.ExpectBegin()
		d.sqlMock.ExpectCommit()
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(&task.Task{}, nil)
		d.repo.EXPECT().Delete(ctx, id).Return(nil)

		assert.NoError(t, d.service.Delete(ctx, id))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		d := setupServiceTest(t)

		assert.ErrorIs(t, d.service.Delete(ctx, "1"), taskerrors.ErrInvalidTaskID)
	})
}
