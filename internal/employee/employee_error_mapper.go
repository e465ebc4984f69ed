package employee

import (
	"errors"
	"strings"

	employeeerrors "go-tasktracker/internal/employee/errors"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MapRepositoryError translates storage errors into employee sentinels.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_employee_emp_id":
			return employeeerrors.ErrEmployeeNumberAlreadyExists
		case "uq_employee_linked_user":
			return employeeerrors.ErrProfileAlreadySubmitted
		default:
			return employeeerrors.ErrEmployeeAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employee_email") {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	if connection.IsConnectionError(err) {
		return apperror.WrapAs(apperror.ErrUnavailable, err)
	}

	return err
}
