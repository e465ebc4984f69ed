package taskerrors

import (
	"go-tasktracker/internal/shared/apperror"
	"net/http"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Task not found",
		http.StatusNotFound,
	)
	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid task ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of TODO, IN_PROGRESS, DONE",
		http.StatusBadRequest,
	)
	ErrAssigneeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Assigned employee not found",
		http.StatusBadRequest,
	)
	ErrNotLinked = apperror.New(
		apperror.CodeInvalidInput,
		"User is not linked to an employee record",
		http.StatusBadRequest,
	)
	ErrNotAssignee = apperror.New(
		apperror.CodeForbidden,
		"Not authorized to update this task",
		http.StatusForbidden,
	)
	ErrStatusOnly = apperror.New(
		apperror.CodeForbidden,
		"Users can only update task status",
		http.StatusForbidden,
	)
	ErrEmptyUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"No fields to update",
		http.StatusBadRequest,
	)
)
