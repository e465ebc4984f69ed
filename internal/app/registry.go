package app

import (
	"context"

	"go-tasktracker/internal/approval"
	"go-tasktracker/internal/auth"
	"go-tasktracker/internal/config"
	"go-tasktracker/internal/dashboard"
	"go-tasktracker/internal/employee"
	"go-tasktracker/internal/messaging/kafka"
	"go-tasktracker/internal/middleware"
	"go-tasktracker/internal/rbac"
	"go-tasktracker/internal/rbac/infra"
	"go-tasktracker/internal/shared/counter"
	"go-tasktracker/internal/task"
	"go-tasktracker/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(ctx context.Context, api *gin.RouterGroup, in *Infra, cfg *config.Config, logger *zap.Logger) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(in.GormDB)
	userRepo := user.NewRepository(in.GormDB)
	employeeRepo := employee.NewRepository(in.GormDB)
	taskRepo := task.NewRepository(in.GormDB)
	counterRepo := counter.NewRepository(in.GormDB)
	outboxRepo := kafka.NewOutboxRepository(in.DB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbac.ModelText)
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(rbacRepo, enforcer, logger)
	if err != nil {
		return err
	}
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewService(in.DB, userRepo, employeeRepo, counterRepo, outboxRepo, tokens, cfg.AllowAdminSignup, logger)
	userService := user.NewService(userRepo, logger)
	employeeService := employee.NewService(in.DB, employeeRepo, taskRepo, counterRepo, outboxRepo, in.Redis, logger)
	approvalService := approval.NewService(in.DB, employeeRepo, userRepo, counterRepo, outboxRepo, in.Metrics, logger)
	taskService := task.NewService(in.DB, taskRepo, employeeRepo, logger)
	dashboardService := dashboard.NewService(taskRepo, employeeRepo, userRepo, in.Metrics,
		dashboard.WithWorkers(cfg.DashboardWorkers),
		dashboard.WithLogger(logger),
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.NewOAuthProviders(cfg.GitHub, cfg.Google), auth.HandlerConfig{
		ClientURL:    cfg.ClientURL,
		SecureCookie: cfg.IsProduction(),
		AccessTTL:    cfg.AccessTokenTTL,
		RefreshTTL:   cfg.RefreshTokenTTL,
	}, logger)
	userHandler := user.NewHandler(userService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	approvalHandler := approval.NewHandler(approvalService, logger).WithAudit(in.Audit)
	taskHandler := task.NewHandler(taskService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	authMW := middleware.AuthMiddleware(cfg.JWTSecret)

	auth.RegisterRoutes(api, authHandler, authMW)
	user.RegisterRoutes(api, userHandler, authMW, userService, rbacService, logger)
	employee.RegisterRoutes(api, employeeHandler, authMW, userService, rbacService, in.Redis, logger)
	approval.RegisterRoutes(api, approvalHandler, authMW, userService, rbacService, logger)
	task.RegisterRoutes(api, taskHandler, authMW, userService, rbacService, in.Redis, logger)
	dashboard.RegisterRoutes(api, dashboardHandler, authMW, userService, rbacService, logger)
	rbac.RegisterRoutes(api, rbacHandler, rbacService, authMW)

	return nil
}
