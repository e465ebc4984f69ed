package user

import (
	"errors"

	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/connection"
	usererrors "go-tasktracker/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MapRepositoryError translates storage errors into user sentinels.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return usererrors.ErrUserAlreadyExists
	}

	if connection.IsConnectionError(err) {
		return apperror.WrapAs(apperror.ErrUnavailable, err)
	}

	return err
}
