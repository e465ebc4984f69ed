package rbac

import (
	"context"
	"sync"

	"go-tasktracker/internal/access"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(role, resource, action string) (bool, error)
	Policies() []Policy
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	policies []Policy
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService starts with DefaultPolicies loaded. repo may be nil, in which
// case LoadPolicy keeps the defaults.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	s := &service{repo: repo, enforcer: enforcer, logger: l}
	if err := s.apply(DefaultPolicies); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadPolicy replaces the in-memory policy with role_permissions, seeding
// the table with DefaultPolicies when it is empty.
func (s *service) LoadPolicy(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	rows, err := s.repo.ListPolicies(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		if err := s.repo.SeedPolicies(ctx, DefaultPolicies); err != nil {
			return err
		}
		rows = DefaultPolicies
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyUnlocked(rows); err != nil {
		return err
	}

	s.logger.Info("rbac policy loaded", zap.Int("policies", len(rows)))
	return nil
}

func (s *service) apply(policies []Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyUnlocked(policies)
}

func (s *service) applyUnlocked(policies []Policy) error {
	s.enforcer.ClearPolicy()

	if _, err := s.enforcer.AddGroupingPolicy(access.RoleAdmin, access.RoleUser); err != nil {
		return err
	}
	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}
	s.policies = append([]Policy(nil), policies...)
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Policies() []Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Policy(nil), s.policies...)
}
