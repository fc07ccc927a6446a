package autherrors

import (
	"go-staffhub/internal/shared/apperror"
	"net/http"
)

// Messages of the legacy login surface are part of its contract.
var (
	ErrCredentialsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Email and password required",
		http.StatusBadRequest,
	)
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrNotAnEmployee = apperror.New(
		apperror.CodeForbidden,
		"Access denied: Not an employee record found.",
		http.StatusForbidden,
	)
	ErrAccountInactive = apperror.New(
		apperror.CodeForbidden,
		"Account is inactive.",
		http.StatusForbidden,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"Email already registered",
		http.StatusConflict,
	)
	ErrWeakPassword = apperror.New(
		apperror.CodeInvalidInput,
		"Password must be at least 8 characters",
		http.StatusBadRequest,
	)

	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token expired",
		http.StatusUnauthorized,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
