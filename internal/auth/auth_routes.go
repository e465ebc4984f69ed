package auth

import (
	"go-tasktracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		group.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
		group.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		group.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		group.POST("/logout", handler.Logout)
		group.GET("/me", auth, middleware.RateLimitByUser(2, 5), handler.Me)

		group.GET("/oauth/:provider", middleware.RateLimitByIP(0.5, 5), handler.OAuthStart)
		group.GET("/oauth/:provider/callback", middleware.RateLimitByIP(0.5, 5), handler.OAuthCallback)
	}
}
