package user

import (
	"context"
	"time"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/shared/contextutil"
	usererrors "go-tasktracker/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	LoadSubject(ctx context.Context, id string) (*access.Subject, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		l.Error("list users failed", zap.Error(err))
		return nil, MapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = ToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}
	return ToResponse(*u), nil
}

// LoadSubject reads a fresh snapshot of the user for access decisions.
func (s *service) LoadSubject(ctx context.Context, id string) (*access.Subject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		mapped := MapRepositoryError(err)
		if mapped != usererrors.ErrUserNotFound {
			contextutil.GetLogger(ctx, s.logger).Error("load subject failed",
				zap.String("user_id", id),
				zap.Error(err),
			)
		}
		return nil, mapped
	}
	return u.Subject(), nil
}

func ToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		IsApproved:    u.IsApproved,
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
	if u.EmployeeID != nil {
		id := u.EmployeeID.String()
		resp.EmployeeID = &id
	}
	if u.Employee != nil {
		resp.EmployeeEmpID = u.Employee.EmpID
		resp.EmployeeStatus = u.Employee.Status
	}
	if u.LastLoginAt != nil {
		ts := u.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &ts
	}
	return resp
}
