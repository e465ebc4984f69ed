package task

import "time"

type CreateTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Priority    string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	AssignedTo  string    `json:"assignedTo" binding:"required,uuid"`
}

// UpdateTaskRequest carries only the fields present in the body.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *string    `json:"assignedTo" binding:"omitempty,uuid"`
}

func (r UpdateTaskRequest) IsEmpty() bool {
	return r.Status == nil && !r.touchesDetails()
}

// StatusOnly reports whether status is the only field present.
func (r UpdateTaskRequest) StatusOnly() bool {
	return r.Status != nil && !r.touchesDetails()
}

func (r UpdateTaskRequest) touchesDetails() bool {
	return r.Title != nil || r.Description != nil || r.Priority != nil ||
		r.DueDate != nil || r.AssignedTo != nil
}

type TaskRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     string  `json:"dueDate"`
	AssignedTo  TaskRef `json:"assignedTo"`
	CreatedBy   TaskRef `json:"createdBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
