package task

import (
	"errors"

	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/connection"
	taskerrors "go-tasktracker/internal/task/errors"

	"gorm.io/gorm"
)

// MapRepositoryError translates storage errors into task sentinels.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return taskerrors.ErrTaskNotFound
	}

	if connection.IsConnectionError(err) {
		return apperror.WrapAs(apperror.ErrUnavailable, err)
	}

	return err
}
