package task_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/middleware"
	rbacMock "go-tasktracker/internal/rbac/mock"
	"go-tasktracker/internal/task"
	taskMock "go-tasktracker/internal/task/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type staticLoader struct {
	subject *access.Subject
}

func (l staticLoader) LoadSubject(context.Context, string) (*access.Subject, error) {
	return l.subject, nil
}

func routedEngine(svc task.Service, rbacService middleware.RBACService, subject *access.Subject) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, subject.ID.String())
		c.Next()
	}
	task.RegisterRoutes(r.Group("/api/v1"), task.NewHandler(svc), auth, staticLoader{subject: subject}, rbacService, nil, zap.NewNop())
	return r
}

func TestTaskRoutes_UpdateGate(t *testing.T) {
	employeeID := uuid.New()
	taskID := uuid.NewString()

	t.Run("unapproved assignee is sent to pending approval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := taskMock.NewMockService(ctrl)
		rbacService := rbacMock.NewMockService(ctrl)
		subject := &access.Subject{ID: uuid.New(), Role: access.RoleUser, LinkedEmployeeID: &employeeID}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/tasks/"+taskID, strings.NewReader(`{"status":"DONE"}`))
		req.Header.Set("Content-Type", "application/json")
		routedEngine(svc, rbacService, subject).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var env struct {
			Data middleware.GateResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, access.RedirectToPendingApproval, env.Data.Decision)
		assert.Equal(t, access.PathPendingApproval, env.Data.RedirectTo)
	})

	t.Run("approved assignee reaches the handler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := taskMock.NewMockService(ctrl)
		rbacService := rbacMock.NewMockService(ctrl)
		subject := &access.Subject{ID: uuid.New(), Role: access.RoleUser, LinkedEmployeeID: &employeeID, IsApproved: true}

		rbacService.EXPECT().Enforce(access.RoleUser, "task", "update").Return(true, nil)
		svc.EXPECT().Update(gomock.Any(), subject, taskID, gomock.Any()).
			Return(task.TaskResponse{ID: taskID, Status: task.StatusDone}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/tasks/"+taskID, strings.NewReader(`{"status":"DONE"}`))
		req.Header.Set("Content-Type", "application/json")
		routedEngine(svc, rbacService, subject).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
