package attendanceerrors

import (
	"go-staffhub/internal/shared/apperror"
	"net/http"
)

var (
	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"Not authenticated",
		http.StatusUnauthorized,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Already checked in today",
		http.StatusConflict,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"Already checked out today",
		http.StatusConflict,
	)
	ErrNoCheckInFound = apperror.New(
		apperror.CodeInvalidState,
		"No check-in found for today",
		http.StatusConflict,
	)
	ErrViewOthersForbidden = apperror.New(
		apperror.CodeForbidden,
		"You can only view your own attendance",
		http.StatusForbidden,
	)
)
