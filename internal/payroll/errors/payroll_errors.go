package payrollerrors

import (
	"net/http"

	"go-staffhub/internal/shared/apperror"
)

var (
	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"Not authenticated",
		http.StatusUnauthorized,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrPayslipExists = apperror.New(
		apperror.CodeConflict,
		"payslip already exists for this period",
		http.StatusConflict,
	)
	ErrViewOthersForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own payslips",
		http.StatusForbidden,
	)
)
