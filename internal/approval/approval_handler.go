package approval

import (
	"net/http"

	approvalerrors "go-tasktracker/internal/approval/errors"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/audit"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	audit   audit.Logger
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("approval.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.handler")
	}
	return &Handler{service: service, logger: l}
}

// WithAudit records every approval decision on a.
func (h *Handler) WithAudit(a audit.Logger) *Handler {
	h.audit = a
	return h
}

func (h *Handler) record(c *gin.Context, action, message string) {
	if h.audit == nil {
		return
	}
	h.audit.Log(c.Request.Context(), audit.Entry{
		Action:  action,
		Message: message,
		ActorID: c.GetString("user_id"),
		Meta:    map[string]any{"employee_id": c.Param("id")},
	})
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("approval request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("employee_id", c.Param("id")),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.record(c, audit.ActionEmployeeApproved, "Employee approved")
	response.Success(c, http.StatusOK, ActionResponse{Message: "Employee approved", Employee: resp}, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	resp, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.record(c, audit.ActionEmployeeRejected, "Employee rejected")
	response.Success(c, http.StatusOK, ActionResponse{Message: "Employee rejected", Employee: resp}, nil)
}

func (h *Handler) CompleteProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		h.writeServiceError(c, approvalerrors.ErrMissingUser)
		return
	}

	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.FromBindError(err))
		return
	}

	resp, err := h.service.CompleteProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ActionResponse{
		Message:  "Profile submitted, awaiting approval",
		Employee: resp,
	}, nil)
}
