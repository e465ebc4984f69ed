package middleware

import (
	"net/http"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type GateResponse struct {
	Decision   access.Decision `json:"decision"`
	RedirectTo string          `json:"redirectTo,omitempty"`
}

// AccessGate runs the access resolver for page against the subject loaded
// by CurrentUser. Anything other than allow stops the request with 403 and
// the decision so the client can redirect.
func AccessGate(page access.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, _ := CurrentSubject(c)

		decision := access.Resolve(subject, page.Path, page.Roles)
		if decision == access.Allow {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.ApiEnvelope{
			Ok: false,
			Data: GateResponse{
				Decision:   decision,
				RedirectTo: decision.Target(),
			},
			Error: map[string]interface{}{
				"code":    apperror.CodeForbidden,
				"message": "Access denied",
			},
		})
	}
}
