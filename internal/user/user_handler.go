package user

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/middleware"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("user request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if role := strings.TrimSpace(c.Query("role")); role != "" {
		filtered := make([]UserResponse, 0, len(resp))
		for _, u := range resp {
			if u.Role == role {
				filtered = append(filtered, u)
			}
		}
		resp = filtered
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]UserResponse, 0, len(resp))
		for _, u := range resp {
			if strings.Contains(strings.ToLower(u.Email), q) || strings.Contains(strings.ToLower(u.Name), q) {
				filtered = append(filtered, u)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sortBy", "createdAt")))
	desc := strings.EqualFold(c.Query("sortDir"), "desc")
	less := func(a, b UserResponse) bool {
		switch sortBy {
		case "email":
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		default:
			return a.CreatedAt < b.CreatedAt
		}
	}
	sort.SliceStable(resp, func(i, j int) bool {
		if desc {
			return less(resp[j], resp[i])
		}
		return less(resp[i], resp[j])
	})

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if pageSize < 1 {
		pageSize = 50
	}
	start, end := response.Paginate(len(resp), page, pageSize)

	meta := response.NewPaginationMeta(int64(len(resp)), page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	res, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

// ResolveAccess reports where the caller would land when navigating to the
// path query parameter. roles overrides the registered page restriction.
func (h *Handler) ResolveAccess(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		h.writeError(c, apperror.InvalidField("path"))
		return
	}

	roles := access.ParseRoles(c.Query("roles"))
	if roles == nil {
		roles = access.LookupPage(path).Roles
	}

	subject, _ := middleware.CurrentSubject(c)
	decision := access.Resolve(subject, path, roles)

	response.Success(c, http.StatusOK, middleware.GateResponse{
		Decision:   decision,
		RedirectTo: decision.Target(),
	}, nil)
}
