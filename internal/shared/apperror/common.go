package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrStoreUnavailable = New(
		CodeServiceUnavailable,
		"Data store is temporarily unavailable",
		http.StatusServiceUnavailable,
	)
)

// FieldError is the details payload of a field-identified validation error.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, field+" is required", http.StatusBadRequest).
		WithDetails(FieldError{Field: field, Reason: "required"})
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, field+" is invalid", http.StatusBadRequest).
		WithDetails(FieldError{Field: field, Reason: "invalid"})
}

// Validation builds a field-identified INVALID_INPUT error with a custom reason.
func Validation(field, reason string) *AppError {
	return New(CodeInvalidInput, field+": "+reason, http.StatusBadRequest).
		WithDetails(FieldError{Field: field, Reason: reason})
}
