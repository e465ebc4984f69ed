package employee

type CreateEmployeeRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	EmpID       string `json:"empId"`
	Department  string `json:"department" binding:"required"`
	RoleTitle   string `json:"roleTitle" binding:"required"`
	TasksInfo   string `json:"tasksInfo"`
	ActionsInfo string `json:"actionsInfo"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Email       *string `json:"email" binding:"omitempty,email"`
	EmpID       *string `json:"empId"`
	Department  *string `json:"department"`
	RoleTitle   *string `json:"roleTitle"`
	TasksInfo   *string `json:"tasksInfo"`
	ActionsInfo *string `json:"actionsInfo"`
}

func (r UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.EmpID == nil && r.Department == nil &&
		r.RoleTitle == nil && r.TasksInfo == nil && r.ActionsInfo == nil
}

type EmployeeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	EmpID       string  `json:"empId"`
	Department  string  `json:"department"`
	RoleTitle   string  `json:"roleTitle"`
	TasksInfo   string  `json:"tasksInfo"`
	ActionsInfo string  `json:"actionsInfo"`
	Status      string  `json:"status"`
	LinkedUser  *string `json:"linkedUser"`
	TaskCount   *int64  `json:"taskCount,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type EmployeeOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	EmpID string `json:"empId"`
}
