package approval

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
	employees := r.Group("/employees")
	employees.Use(auth)
	employees.Use(middleware.CurrentUser(loader))
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.POST("/complete-profile",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "profile", "submit"),
			handler.CompleteProfile,
		)

		employees.POST("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "approval", "approve"),
			handler.Approve,
		)

		employees.POST("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "approval", "reject"),
			handler.Reject,
		)
	}
}
