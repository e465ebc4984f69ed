package approval

import "go-tasktracker/internal/employee"

// CompleteProfileRequest is the profile a signed-in user submits for review.
// Email falls back to the account email and EmpID is generated when empty.
type CompleteProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	EmpID       string `json:"empId"`
	Department  string `json:"department" binding:"required"`
	RoleTitle   string `json:"roleTitle" binding:"required"`
	TasksInfo   string `json:"tasksInfo"`
	ActionsInfo string `json:"actionsInfo"`
}

type ActionResponse struct {
	Message  string                    `json:"message"`
	Employee employee.EmployeeResponse `json:"employee"`
}
