package task

import (
	"go-tasktracker/internal/access"
	"go-tasktracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	loader middleware.SubjectLoader,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	tasks := r.Group("/tasks")
	tasks.Use(auth)
	tasks.Use(middleware.CurrentUser(loader))
	tasks.Use(middleware.ContextLogger(logger))
	{
		tasks.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "task", "read"),
			handler.GetAll,
		)

		tasks.GET("/my",
			middleware.RateLimitByUser(3, 10),
			middleware.AccessGate(access.PageMyTasks),
			middleware.RBACAuthorize(rbacService, "task", "read_own"),
			handler.GetMine,
		)

		tasks.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "task", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		tasks.PUT("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.AccessGate(access.PageDashboard),
			middleware.RBACAuthorize(rbacService, "task", "update"),
			handler.Update,
		)

		tasks.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "task", "delete"),
			handler.Delete,
		)
	}
}
