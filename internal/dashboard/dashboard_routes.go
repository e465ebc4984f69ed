package dashboard

import (
	"go-tasktracker/internal/access"
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
	dash := r.Group("/dashboard")
	dash.Use(auth)
	dash.Use(middleware.CurrentUser(loader))
	dash.Use(middleware.ContextLogger(logger))
	{
		dash.GET("/summary",
			middleware.RateLimitByUser(2, 5),
			middleware.AccessGate(access.PageDashboard),
			middleware.RBACAuthorize(rbacService, "dashboard", "read"),
			handler.Summary,
		)
	}
}
