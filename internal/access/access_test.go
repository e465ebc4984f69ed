package access_test

import (
	"testing"

	"go-tasktracker/internal/access"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func linked() *uuid.UUID {
	id := uuid.New()
	return &id
}

func TestResolve(t *testing.T) {
	unlinkedUser := &access.Subject{ID: uuid.New(), Role: access.RoleUser}
	pendingUser := &access.Subject{ID: uuid.New(), Role: access.RoleUser, LinkedEmployeeID: linked()}
	activeUser := &access.Subject{ID: uuid.New(), Role: access.RoleUser, LinkedEmployeeID: linked(), IsApproved: true}
	admin := &access.Subject{ID: uuid.New(), Role: access.RoleAdmin, IsApproved: true}
	pendingAdmin := &access.Subject{ID: uuid.New(), Role: access.RoleAdmin}

	tests := []struct {
		name    string
		subject *access.Subject
		path    string
		roles   []string
		want    access.Decision
	}{
		{"anonymous goes to login", nil, "/dashboard", nil, access.RedirectToLogin},
		{"unlinked user on dashboard", unlinkedUser, "/dashboard", nil, access.RedirectToCompleteProfile},
		{"unlinked user on complete profile", unlinkedUser, "/complete-profile", nil, access.Allow},
		{"unlinked user on pending approval", unlinkedUser, "/pending-approval", nil, access.RedirectToCompleteProfile},
		{"pending user on pending approval", pendingUser, "/pending-approval", nil, access.Allow},
		{"pending user on employees", pendingUser, "/employees", []string{"admin"}, access.RedirectToPendingApproval},
		{"pending user on complete profile", pendingUser, "/complete-profile", nil, access.RedirectToPendingApproval},
		{"admin without employee is not sent to complete profile", pendingAdmin, "/dashboard", nil, access.RedirectToPendingApproval},
		{"approved user back on pending approval", activeUser, "/pending-approval", nil, access.RedirectToDashboard},
		{"approved user back on complete profile", activeUser, "/complete-profile", nil, access.RedirectToDashboard},
		{"user on admin page", activeUser, "/employees", []string{"admin"}, access.RedirectToDashboard},
		{"user on own page", activeUser, "/my-tasks", []string{"user"}, access.Allow},
		{"admin on admin page", admin, "/tasks", []string{"admin"}, access.Allow},
		{"admin on user page", admin, "/my-tasks", []string{"user"}, access.RedirectToDashboard},
		{"no restriction", activeUser, "/dashboard", nil, access.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Resolve(tt.subject, tt.path, tt.roles))
		})
	}
}

func TestDecisionTarget(t *testing.T) {
	assert.Equal(t, "/login", access.RedirectToLogin.Target())
	assert.Equal(t, "/complete-profile", access.RedirectToCompleteProfile.Target())
	assert.Equal(t, "/pending-approval", access.RedirectToPendingApproval.Target())
	assert.Equal(t, "/dashboard", access.RedirectToDashboard.Target())
	assert.Empty(t, access.Allow.Target())
}

func TestLookupPage(t *testing.T) {
	assert.Equal(t, []string{"admin"}, access.LookupPage("/employees").Roles)
	assert.Equal(t, []string{"user"}, access.LookupPage("/my-tasks").Roles)
	assert.Empty(t, access.LookupPage("/dashboard").Roles)
	assert.Empty(t, access.LookupPage("/unknown").Roles)
}

func TestParseRoles(t *testing.T) {
	assert.Nil(t, access.ParseRoles(" "))
	assert.Equal(t, []string{"admin", "user"}, access.ParseRoles("admin, ,user"))
}
