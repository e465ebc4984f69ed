package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP resolves any error into the shape written by response.Error.
// Errors that are not an *AppError are reported as internal errors
// without leaking their text.
func ToHTTP(err error) HTTPError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = MapValidationError(verrs)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}

// FromBindError converts a request binding failure into an AppError. Field
// validation failures keep their field message; malformed bodies become
// ErrInvalidInput.
func FromBindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return MapValidationError(verrs)
	}
	return WrapAs(ErrInvalidInput, err)
}
