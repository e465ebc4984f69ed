package user

type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	IsApproved     bool    `json:"isApproved"`
	EmployeeID     *string `json:"employeeId"`
	EmployeeEmpID  string  `json:"employeeEmpId,omitempty"`
	EmployeeStatus string  `json:"employeeStatus,omitempty"`
	OAuthProvider  string  `json:"oauthProvider,omitempty"`
	LastLoginAt    *string `json:"lastLoginAt"`
	CreatedAt      string  `json:"createdAt"`
}
