package approval_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-tasktracker/internal/approval"
	approvalerrors "go-tasktracker/internal/approval/errors"
	approvalMock "go-tasktracker/internal/approval/mock"
	"go-tasktracker/internal/employee"
	employeeerrors "go-tasktracker/internal/employee/errors"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/audit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	OK    bool                    `json:"ok"`
	Data  approval.ActionResponse `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestApprovalHandler_Approve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)
		id := uuid.NewString()
		svc.EXPECT().Approve(gomock.Any(), id).Return(employee.EmployeeResponse{ID: id, Status: employee.StatusApproved}, nil)

		c, w := newContext(http.MethodPost, "/api/v1/employees/"+id+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: id}}

		approval.NewHandler(svc).Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.True(t, env.OK)
		assert.Equal(t, "Employee approved", env.Data.Message)
		assert.Equal(t, employee.StatusApproved, env.Data.Employee.Status)
	})

	t.Run("unknown employee", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)
		id := uuid.NewString()
		svc.EXPECT().Approve(gomock.Any(), id).Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound)

		c, w := newContext(http.MethodPost, "/api/v1/employees/"+id+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: id}}

		approval.NewHandler(svc).Approve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, decode(t, w).Error.Code)
	})

	t.Run("partial failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)
		id := uuid.NewString()
		svc.EXPECT().Approve(gomock.Any(), id).Return(employee.EmployeeResponse{}, approvalerrors.ErrPartialFailure)

		c, w := newContext(http.MethodPost, "/api/v1/employees/"+id+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: id}}

		approval.NewHandler(svc).Approve(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperror.CodePartialFailure, decode(t, w).Error.Code)
	})
}

type auditSpy struct {
	entries []audit.Entry
}

func (a *auditSpy) Log(_ context.Context, e audit.Entry) {
	a.entries = append(a.entries, e)
}

func TestApprovalHandler_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := approvalMock.NewMockService(ctrl)
	spy := &auditSpy{}
	id := uuid.NewString()
	svc.EXPECT().Reject(gomock.Any(), id).Return(employee.EmployeeResponse{ID: id, Status: employee.StatusRejected}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/employees/"+id+"/reject", "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Set("user_id", "admin-1")

	approval.NewHandler(svc).WithAudit(spy).Reject(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Employee rejected", env.Data.Message)
	assert.Equal(t, employee.StatusRejected, env.Data.Employee.Status)

	assert.Len(t, spy.entries, 1)
	assert.Equal(t, audit.ActionEmployeeRejected, spy.entries[0].Action)
	assert.Equal(t, "admin-1", spy.entries[0].ActorID)
	assert.Equal(t, id, spy.entries[0].Meta["employee_id"])
}

func TestApprovalHandler_CompleteProfile(t *testing.T) {
	body := `{"name":"Jane Doe","department":"Engineering","roleTitle":"Developer"}`

	t.Run("created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)
		userID := uuid.NewString()
		svc.EXPECT().
			CompleteProfile(gomock.Any(), userID, approval.CompleteProfileRequest{
				Name:       "Jane Doe",
				Department: "Engineering",
				RoleTitle:  "Developer",
			}).
			Return(employee.EmployeeResponse{Status: employee.StatusPending, LinkedUser: &userID}, nil)

		c, w := newContext(http.MethodPost, "/api/v1/employees/complete-profile", body)
		c.Set("user_id", userID)

		approval.NewHandler(svc).CompleteProfile(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.Equal(t, "Profile submitted, awaiting approval", env.Data.Message)
		assert.Equal(t, employee.StatusPending, env.Data.Employee.Status)
	})

	t.Run("duplicate is a bad request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)
		userID := uuid.NewString()
		svc.EXPECT().CompleteProfile(gomock.Any(), userID, gomock.Any()).
			Return(employee.EmployeeResponse{}, employeeerrors.ErrProfileAlreadySubmitted)

		c, w := newContext(http.MethodPost, "/api/v1/employees/complete-profile", body)
		c.Set("user_id", userID)

		approval.NewHandler(svc).CompleteProfile(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Profile already submitted", decode(t, w).Error.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)

		c, w := newContext(http.MethodPost, "/api/v1/employees/complete-profile", `{"name":"Jane"}`)
		c.Set("user_id", uuid.NewString())

		approval.NewHandler(svc).CompleteProfile(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decode(t, w).Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := approvalMock.NewMockService(ctrl)

		c, w := newContext(http.MethodPost, "/api/v1/employees/complete-profile", body)

		approval.NewHandler(svc).CompleteProfile(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
