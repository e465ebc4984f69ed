package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-tasktracker/internal/access"
	autherrors "go-tasktracker/internal/auth/errors"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/events"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/shared/contextutil"
	"go-tasktracker/internal/shared/counter"
	"go-tasktracker/internal/user"
	usererrors "go-tasktracker/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultDepartment = "Unassigned"
	defaultRoleTitle  = "Employee"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Session, error)
	Login(ctx context.Context, req LoginRequest) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Me(ctx context.Context, userID string) (AuthResponse, error)
	OAuthLogin(ctx context.Context, provider string, identity OAuthIdentity) (Session, error)
}

type service struct {
	db               *sql.DB
	users            user.Repository
	employees        employee.Repository
	counter          counter.Repository
	outbox           kafka.OutboxRepository
	tokens           *TokenIssuer
	allowAdminSignup bool
	now              func() time.Time
	logger           *zap.Logger
}

func NewService(
	db *sql.DB,
	users user.Repository,
	employees employee.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	tokens *TokenIssuer,
	allowAdminSignup bool,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:               db,
		users:            users,
		employees:        employees,
		counter:          counterRepo,
		outbox:           outboxRepo,
		tokens:           tokens,
		allowAdminSignup: allowAdminSignup,
		now:              time.Now,
		logger:           l,
	}
}

// Register creates the account. Members also get a pending employee profile
// linked both ways; admins are approved straight away.
func (s *service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	role := req.Role
	if role == "" {
		role = access.RoleUser
	}
	if role == access.RoleAdmin && !s.allowAdminSignup {
		return Session{}, autherrors.ErrAdminSignupDisabled
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return Session{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	u := &user.User{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		IsApproved: role == access.RoleAdmin,
	}

	var empl *employee.Employee
	if role == access.RoleUser {
		empID, err := s.employeeNumber(ctx, req.EmpID)
		if err != nil {
			l.Error("register employee number failed", zap.Error(err))
			return Session{}, err
		}
		empl = &employee.Employee{
			ID:           uuid.New(),
			Name:         u.Name,
			Email:        email,
			EmpID:        empID,
			Department:   withDefault(req.Department, defaultDepartment),
			RoleTitle:    withDefault(req.RoleTitle, defaultRoleTitle),
			TasksInfo:    req.TasksInfo,
			ActionsInfo:  req.ActionsInfo,
			Status:       employee.StatusPending,
			LinkedUserID: &u.ID,
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("register begin tx failed", zap.Error(err))
		return Session{}, err
	}
	defer tx.Rollback()

	users := s.users.WithTx(tx)
	if err := users.Create(ctx, u); err != nil {
		return Session{}, mapCreateError(err)
	}

	if empl != nil {
		if err := s.employees.WithTx(tx).Create(ctx, empl); err != nil {
			l.Error("register employee persist failed", zap.Error(err))
			return Session{}, employee.MapRepositoryError(err)
		}
		u.EmployeeID = &empl.ID
		if err := users.Update(ctx, u); err != nil {
			return Session{}, user.MapRepositoryError(err)
		}

		evt, err := events.EmployeeEvent{
			EventType:  events.EmployeeProfileSubmitted,
			RequestID:  contextutil.GetRequestID(ctx),
			EmployeeID: empl.ID.String(),
			UserID:     u.ID.String(),
			Status:     empl.Status,
			OccurredAt: s.now().UTC(),
		}.Outbox()
		if err != nil {
			return Session{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, evt); err != nil {
			l.Error("register outbox persist failed", zap.Error(err))
			return Session{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error("register commit failed", zap.Error(err))
		return Session{}, err
	}

	l.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.Bool("has_employee", empl != nil),
	)
	return s.session(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(user.MapRepositoryError(err), usererrors.ErrUserNotFound) {
			return Session{}, autherrors.ErrInvalidCredentials
		}
		return Session{}, user.MapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return Session{}, autherrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	u.LastLoginAt = &now
	if err := s.users.Update(ctx, u); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("login record last login failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
		return Session{}, user.MapRepositoryError(err)
	}

	return s.session(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return Session{}, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(user.MapRepositoryError(err), usererrors.ErrUserNotFound) {
			return Session{}, autherrors.ErrInvalidRefreshToken
		}
		return Session{}, user.MapRepositoryError(err)
	}
	return s.session(u)
}

func (s *service) Me(ctx context.Context, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return AuthResponse{}, user.MapRepositoryError(err)
	}
	return toAuthResponse(u), nil
}

// OAuthLogin finds the account by email or creates a member account with an
// unusable random password.
func (s *service) OAuthLogin(ctx context.Context, provider string, identity OAuthIdentity) (Session, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	email := normalizeEmail(identity.Email)
	if email == "" {
		l.Warn("oauth profile without email", zap.String("provider", provider))
		return Session{}, autherrors.ErrOAuthFailed
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return s.session(u)
	}
	if !errors.Is(user.MapRepositoryError(err), usererrors.ErrUserNotFound) {
		return Session{}, user.MapRepositoryError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()+uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = email
	}
	u = &user.User{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		Password:      string(hashed),
		Role:          access.RoleUser,
		OAuthProvider: provider,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return Session{}, mapCreateError(err)
	}

	l.Info("oauth user created", zap.String("user_id", u.ID.String()), zap.String("provider", provider))
	return s.session(u)
}

func (s *service) session(u *user.User) (Session, error) {
	accessToken, refreshToken, err := s.tokens.Issue(u.ID.String(), u.Role)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return Session{}, autherrors.ErrTokenGenerationFailed
	}
	return Session{
		User:         toAuthResponse(u),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return autherrors.ErrEmailAlreadyRegistered
	}
	if mapped := user.MapRepositoryError(err); !errors.Is(mapped, usererrors.ErrUserNotFound) {
		return mapped
	}
	return nil
}

func (s *service) employeeNumber(ctx context.Context, requested string) (string, error) {
	if v := strings.TrimSpace(requested); v != "" {
		return v, nil
	}
	next, err := s.counter.GetNextValue(ctx, counter.EmployeeNumber)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EMP-%06d", next), nil
}

func mapCreateError(err error) error {
	mapped := user.MapRepositoryError(err)
	if errors.Is(mapped, usererrors.ErrUserAlreadyExists) {
		return autherrors.ErrEmailAlreadyRegistered
	}
	return mapped
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func withDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
