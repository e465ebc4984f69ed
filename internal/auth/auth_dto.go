package auth

import (
	"time"

	"go-tasktracker/internal/user"
)

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"omitempty,oneof=admin user"`
	EmpID       string `json:"empId"`
	Department  string `json:"department"`
	RoleTitle   string `json:"roleTitle"`
	TasksInfo   string `json:"tasksInfo"`
	ActionsInfo string `json:"actionsInfo"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	LinkedEmployee *string `json:"linkedEmployee"`
	IsApproved     bool    `json:"isApproved"`
	LastLoginAt    *string `json:"lastLoginAt,omitempty"`
}

// Session is a freshly issued token pair with the user it belongs to.
type Session struct {
	User         AuthResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func toAuthResponse(u *user.User) AuthResponse {
	resp := AuthResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsApproved: u.IsApproved,
	}
	if u.EmployeeID != nil {
		id := u.EmployeeID.String()
		resp.LinkedEmployee = &id
	}
	if u.LastLoginAt != nil {
		at := u.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLoginAt = &at
	}
	return resp
}
