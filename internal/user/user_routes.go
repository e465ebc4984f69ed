package user

import (
	"go-tasktracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	loader middleware.SubjectLoader,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	users := r.Group("/users")
	users.Use(auth)
	users.Use(middleware.CurrentUser(loader))
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetAll,
		)

		users.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetByID,
		)
	}

	accessGroup := r.Group("/access")
	accessGroup.Use(auth)
	accessGroup.Use(middleware.CurrentUser(loader))
	accessGroup.Use(middleware.ContextLogger(logger))
	{
		accessGroup.GET("/resolve",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "access", "resolve"),
			handler.ResolveAccess,
		)
	}
}
