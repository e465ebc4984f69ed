package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-tasktracker/internal/access"
	"go-tasktracker/internal/middleware"
	"go-tasktracker/internal/user"
	usererrors "go-tasktracker/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeUserService struct {
	GetAllFn      func(ctx context.Context) ([]user.UserResponse, error)
	GetByIDFn     func(ctx context.Context, id string) (user.UserResponse, error)
	LoadSubjectFn func(ctx context.Context, id string) (*access.Subject, error)
}

func (f *fakeUserService) GetAll(ctx context.Context) ([]user.UserResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeUserService) LoadSubject(ctx context.Context, id string) (*access.Subject, error) {
	return f.LoadSubjectFn(ctx, id)
}

type envelope struct {
	Ok   bool                `json:"ok"`
	Data []user.UserResponse `json:"data"`
	Meta struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func TestUserHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeUserService{
		GetAllFn: func(ctx context.Context) ([]user.UserResponse, error) {
			return []user.UserResponse{
				{ID: "1", Name: "Zed", Email: "zed@mail.com", Role: "user", CreatedAt: "2026-01-01T00:00:00Z"},
				{ID: "2", Name: "Ann", Email: "ann@mail.com", Role: "admin", CreatedAt: "2026-01-02T00:00:00Z"},
				{ID: "3", Name: "Bob", Email: "bob@mail.com", Role: "user", CreatedAt: "2026-01-03T00:00:00Z"},
			}, nil
		},
	}

	t.Run("filter by role and sort by name", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users?role=user&sortBy=name", nil)

		user.NewHandler(svc).GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var body envelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(2), body.Meta.Total)
		assert.Equal(t, "Bob", body.Data[0].Name)
		assert.Equal(t, "Zed", body.Data[1].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2&pageSize=2", nil)

		user.NewHandler(svc).GetAll(c)

		var body envelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Data, 1)
		assert.Equal(t, "3", body.Data[0].ID)
	})
}

func TestUserHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeUserService{
		GetByIDFn: func(ctx context.Context, id string) (user.UserResponse, error) {
			return user.UserResponse{}, usererrors.ErrUserNotFound
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	user.NewHandler(svc).GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestUserHandler_ResolveAccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	empID := uuid.New()
	active := &access.Subject{ID: uuid.New(), Role: access.RoleUser, LinkedEmployeeID: &empID, IsApproved: true}
	unlinked := &access.Subject{ID: uuid.New(), Role: access.RoleUser}

	tests := []struct {
		name       string
		subject    *access.Subject
		query      string
		status     int
		decision   access.Decision
		redirectTo string
	}{
		{"registered admin page", active, "path=/employees", http.StatusOK, access.RedirectToDashboard, "/dashboard"},
		{"roles override", active, "path=/reports&roles=admin,user", http.StatusOK, access.Allow, ""},
		{"unlinked user", unlinked, "path=/dashboard", http.StatusOK, access.RedirectToCompleteProfile, "/complete-profile"},
		{"missing path", active, "", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/access/resolve?"+tt.query, nil)
			c.Set(middleware.ContextSubject, tt.subject)

			user.NewHandler(&fakeUserService{}).ResolveAccess(c)

			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Data middleware.GateResponse `json:"data"`
			}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.decision, body.Data.Decision)
			assert.Equal(t, tt.redirectTo, body.Data.RedirectTo)
		})
	}
}
