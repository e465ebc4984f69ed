package middleware

import (
	"context"
	"net/http"

	"go-tasktracker/internal/access"
	autherrors "go-tasktracker/internal/auth/errors"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const ContextSubject = "subject"

// SubjectLoader returns the current state of a user as the access resolver
// sees it.
type SubjectLoader interface {
	LoadSubject(ctx context.Context, userID string) (*access.Subject, error)
}

// CurrentUser reloads the caller from the store on every request so that
// approval and role changes apply without a new token.
func CurrentUser(loader SubjectLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		subject, err := loader.LoadSubject(c.Request.Context(), userID)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			if httpErr.Status == http.StatusNotFound {
				abortWith(c, autherrors.ErrInvalidToken)
				return
			}
			response.AbortError(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			return
		}

		c.Set(ContextSubject, subject)
		c.Set(ContextRole, subject.Role)
		c.Next()
	}
}

// CurrentSubject returns the snapshot stored by CurrentUser.
func CurrentSubject(c *gin.Context) (*access.Subject, bool) {
	v, ok := c.Get(ContextSubject)
	if !ok {
		return nil, false
	}
	s, ok := v.(*access.Subject)
	return s, ok && s != nil
}
