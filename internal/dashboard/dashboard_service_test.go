package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/dashboard"
	"go-tasktracker/internal/employee"
	employeeMock "go-tasktracker/internal/employee/mock"
	"go-tasktracker/internal/shared/metrics"
	"go-tasktracker/internal/task"
	taskMock "go-tasktracker/internal/task/mock"
	userMock "go-tasktracker/internal/user/mock"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type serviceDeps struct {
	service   dashboard.Service
	tasks     *taskMock.MockRepository
	employees *employeeMock.MockRepository
	users     *userMock.MockRepository
	metrics   *metrics.Metrics
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	tasks := taskMock.NewMockRepository(ctrl)
	employees := employeeMock.NewMockRepository(ctrl)
	users := userMock.NewMockRepository(ctrl)
	m := metrics.New(prometheus.NewRegistry())

	return &serviceDeps{
		service: dashboard.NewService(tasks, employees, users, m,
			dashboard.WithWorkers(2),
			dashboard.WithClock(func() time.Time { return fixedNow }),
		),
		tasks:     tasks,
		employees: employees,
		users:     users,
		metrics:   m,
	}
}

func (d *serviceDeps) expectCounts(total, done int64, grouped []task.StatusCount) {
	d.tasks.EXPECT().CountAll(gomock.Any()).Return(total, nil)
	d.tasks.EXPECT().CountByStatus(gomock.Any(), task.StatusDone).Return(done, nil)
	d.tasks.EXPECT().CountGroupedByStatus(gomock.Any()).Return(grouped, nil)
}

func openTask(priority string, due time.Time) task.Task {
	return task.Task{ID: uuid.New(), Status: task.StatusTodo, Priority: priority, DueDate: due}
}

func TestDashboardService_Summarize(t *testing.T) {
	ctx := context.Background()
	yesterday := fixedNow.Add(-24 * time.Hour)
	nextWeek := fixedNow.Add(7 * 24 * time.Hour)

	t.Run("admin gets user stats and ordered workload", func(t *testing.T) {
		d := setupServiceTest(t)
		emps := []employee.Employee{
			{ID: uuid.New(), Name: "Busy"},
			{ID: uuid.New(), Name: "Idle"},
			{ID: uuid.New(), Name: "Overloaded"},
		}

		d.expectCounts(4, 1, []task.StatusCount{{Status: task.StatusDone, Count: 1}, {Status: task.StatusTodo, Count: 3}})
		d.users.EXPECT().CountAll(gomock.Any()).Return(int64(5), nil)
		d.users.EXPECT().CountByRole(gomock.Any(), access.RoleAdmin).Return(int64(1), nil)
		d.users.EXPECT().CountByRole(gomock.Any(), access.RoleUser).Return(int64(4), nil)
		d.employees.EXPECT().FindAll(gomock.Any()).Return(emps, nil)

		d.tasks.EXPECT().FindByAssignee(gomock.Any(), emps[0].ID.String()).DoAndReturn(
			func(context.Context, string) ([]task.Task, error) {
				time.Sleep(10 * time.Millisecond)
				return []task.Task{openTask(task.PriorityHigh, yesterday)}, nil
			})
		d.tasks.EXPECT().FindByAssignee(gomock.Any(), emps[1].ID.String()).Return(nil, nil)
		overloaded := []task.Task{
			openTask(task.PriorityHigh, yesterday),
			openTask(task.PriorityHigh, nextWeek),
			openTask(task.PriorityMedium, nextWeek),
			openTask(task.PriorityLow, nextWeek),
			{ID: uuid.New(), Status: task.StatusDone, Priority: task.PriorityHigh, DueDate: yesterday},
		}
		d.tasks.EXPECT().FindByAssignee(gomock.Any(), emps[2].ID.String()).Return(overloaded, nil)

		sum, err := d.service.Summarize(ctx, &access.Subject{ID: uuid.New(), Role: access.RoleAdmin, IsApproved: true})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), sum.TotalTasks)
		assert.Equal(t, int64(1), sum.CompletedTasks)
		assert.Equal(t, 25.0, sum.CompletionRate)
		assert.Len(t, sum.TasksByStatus, 2)
		assert.Equal(t, &dashboard.UserStats{TotalUsers: 5, AdminCount: 1, UserCount: 4}, sum.UserStats)

		assert.Len(t, sum.WorkloadData, 3)
		assert.Equal(t, "Busy", sum.WorkloadData[0].Name)
		assert.Equal(t, 6, sum.WorkloadData[0].WorkloadScore)
		assert.Equal(t, "Moderate", sum.WorkloadData[0].WorkloadLevel)
		assert.Equal(t, 1, sum.WorkloadData[0].OverdueTasks)

		assert.Equal(t, "Idle", sum.WorkloadData[1].Name)
		assert.Equal(t, 0, sum.WorkloadData[1].WorkloadScore)
		assert.Equal(t, "Low", sum.WorkloadData[1].WorkloadLevel)

		assert.Equal(t, "Overloaded", sum.WorkloadData[2].Name)
		assert.Equal(t, 4, sum.WorkloadData[2].OpenTasks)
		assert.Equal(t, 11, sum.WorkloadData[2].WorkloadScore)
		assert.Equal(t, "High", sum.WorkloadData[2].WorkloadLevel)

		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.WorkloadLevels.WithLabelValues("High")))
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.WorkloadLevels.WithLabelValues("Low")))
	})

	t.Run("user gets no user stats", func(t *testing.T) {
		d := setupServiceTest(t)

		d.expectCounts(0, 0, nil)
		d.employees.EXPECT().FindAll(gomock.Any()).Return(nil, nil)

		empID := uuid.New()
		sum, err := d.service.Summarize(ctx, &access.Subject{ID: uuid.New(), Role: access.RoleUser, LinkedEmployeeID: &empID, IsApproved: true})

		assert.NoError(t, err)
		assert.Nil(t, sum.UserStats)
		assert.Equal(t, 0.0, sum.CompletionRate)
		assert.NotNil(t, sum.TasksByStatus)
		assert.Empty(t, sum.WorkloadData)
	})

	t.Run("one failing employee fails the summary", func(t *testing.T) {
		d := setupServiceTest(t)
		emps := []employee.Employee{{ID: uuid.New(), Name: "A"}, {ID: uuid.New(), Name: "B"}}

		d.expectCounts(2, 0, nil)
		d.employees.EXPECT().FindAll(gomock.Any()).Return(emps, nil)
		d.tasks.EXPECT().FindByAssignee(gomock.Any(), emps[0].ID.String()).Return(nil, nil).AnyTimes()
		d.tasks.EXPECT().FindByAssignee(gomock.Any(), emps[1].ID.String()).Return(nil, errors.New("query failed"))

		_, err := d.service.Summarize(ctx, &access.Subject{ID: uuid.New(), Role: access.RoleUser})

		assert.EqualError(t, err, "query failed")
	})

	t.Run("count failure", func(t *testing.T) {
		d := setupServiceTest(t)
		d.tasks.EXPECT().CountAll(gomock.Any()).Return(int64(0), errors.New("db down"))

		_, err := d.service.Summarize(ctx, &access.Subject{ID: uuid.New(), Role: access.RoleAdmin})

		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Summarize(ctx, nil)

		assert.Error(t, err)
	})
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total int64
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dashboard.CompletionRate(tt.completed, tt.total))
	}
}
