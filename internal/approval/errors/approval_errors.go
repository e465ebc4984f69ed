package approvalerrors

import (
	"go-tasktracker/internal/shared/apperror"
	"net/http"
)

var (
	// ErrPartialFailure means the employee write landed but the linked user
	// write did not. A reconcile event has been queued for the user.
	ErrPartialFailure = apperror.New(
		apperror.CodePartialFailure,
		"Employee updated but the linked user could not be updated",
		http.StatusInternalServerError,
	)
	ErrMissingUser = apperror.New(
		apperror.CodeUnauthorized,
		"User not authenticated",
		http.StatusUnauthorized,
	)
)
