package rbac

import (
	"net/http"
	"strings"

	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce answers whether the caller's role may perform an action, so the
// client can hide controls it would be refused.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.FromBindError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	role := c.GetString("role")
	allowed, err := h.service.Enforce(role, strings.TrimSpace(req.Resource), strings.TrimSpace(req.Action))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Failed to evaluate policy", nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Role: role, Allowed: allowed}, nil)
}

func (h *Handler) ListPolicies(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Policies(), nil)
}
