package employee

import (
	"errors"

	employeeerrors "go-staffhub/internal/employee/errors"
	"go-staffhub/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	if apperror.IsUniqueViolation(err, "uq_employee_user") {
		return employeeerrors.ErrUserAlreadyLinked
	}
	if apperror.IsUniqueViolation(err, "uq_employee_email") {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	return apperror.FromStore(err)
}
