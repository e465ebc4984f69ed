package dashboard

import (
	"context"
	"math"
	"time"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/contextutil"
	"go-tasktracker/internal/shared/metrics"
	"go-tasktracker/internal/task"
	"go-tasktracker/internal/user"
	"go-tasktracker/internal/workload"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Summarize(ctx context.Context, subject *access.Subject) (Summary, error)
}

type Option func(*service)

// WithWorkers bounds how many employee task queries run at once.
func WithWorkers(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("dashboard.service")
		}
	}
}

type service struct {
	tasks     task.Repository
	employees employee.Repository
	users     user.Repository
	metrics   *metrics.Metrics
	workers   int
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(tasks task.Repository, employees employee.Repository, users user.Repository, m *metrics.Metrics, opts ...Option) Service {
	s := &service{
		tasks:     tasks,
		employees: employees,
		users:     users,
		metrics:   m,
		workers:   defaultWorkers,
		now:       time.Now,
		logger:    zap.L().Named("dashboard.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Summarize(ctx context.Context, subject *access.Subject) (Summary, error) {
	if subject == nil {
		return Summary{}, apperror.ErrUnauthorized
	}
	start := time.Now()
	rid := contextutil.GetRequestID(ctx)

	var sum Summary
	var err error

	if sum.TotalTasks, err = s.tasks.CountAll(ctx); err != nil {
		return Summary{}, s.fail(rid, "count tasks", err)
	}
	if sum.CompletedTasks, err = s.tasks.CountByStatus(ctx, task.StatusDone); err != nil {
		return Summary{}, s.fail(rid, "count completed tasks", err)
	}
	sum.CompletionRate = CompletionRate(sum.CompletedTasks, sum.TotalTasks)

	if sum.TasksByStatus, err = s.tasks.CountGroupedByStatus(ctx); err != nil {
		return Summary{}, s.fail(rid, "group tasks by status", err)
	}
	if sum.TasksByStatus == nil {
		sum.TasksByStatus = []task.StatusCount{}
	}

	if subject.IsAdmin() {
		stats, err := s.userStats(ctx)
		if err != nil {
			return Summary{}, s.fail(rid, "count users", err)
		}
		sum.UserStats = stats
	}

	if sum.WorkloadData, err = s.workload(ctx); err != nil {
		return Summary{}, s.fail(rid, "score workload", err)
	}

	s.metrics.RecordDashboard(time.Since(start), levelCounts(sum.WorkloadData))
	s.logger.Debug("dashboard summarized",
		zap.String("request_id", rid),
		zap.Int64("total_tasks", sum.TotalTasks),
		zap.Int("employees", len(sum.WorkloadData)),
		zap.Duration("took", time.Since(start)),
	)
	return sum, nil
}

func (s *service) userStats(ctx context.Context) (*UserStats, error) {
	total, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.CountByRole(ctx, access.RoleAdmin)
	if err != nil {
		return nil, err
	}
	members, err := s.users.CountByRole(ctx, access.RoleUser)
	if err != nil {
		return nil, err
	}
	return &UserStats{TotalUsers: total, AdminCount: admins, UserCount: members}, nil
}

// workload scores every employee against one shared clock reading. Each
// goroutine writes only its own slot so the result keeps employee order.
func (s *service) workload(ctx context.Context) ([]WorkloadEntry, error) {
	emps, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]WorkloadEntry, len(emps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, e := range emps {
		i, e := i, e
		g.Go(func() error {
			tasks, err := s.tasks.FindByAssignee(gctx, e.ID.String())
			if err != nil {
				return err
			}
			res := workload.Score(tasks, now)
			entries[i] = WorkloadEntry{
				ID:            e.ID.String(),
				Name:          e.Name,
				OpenTasks:     res.OpenCount,
				OverdueTasks:  res.OverdueCount,
				WorkloadScore: res.Score,
				WorkloadLevel: string(res.Level),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *service) fail(rid, step string, err error) error {
	s.logger.Error("dashboard "+step+" failed", zap.String("request_id", rid), zap.Error(err))
	return task.MapRepositoryError(err)
}

// CompletionRate is the share of completed tasks as a percentage rounded to
// one decimal place. It is 0 when there are no tasks.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

func levelCounts(entries []WorkloadEntry) map[string]int {
	counts := map[string]int{
		string(workload.LevelLow):      0,
		string(workload.LevelModerate): 0,
		string(workload.LevelHigh):     0,
	}
	for _, e := range entries {
		counts[e.WorkloadLevel]++
	}
	return counts
}
