package notificationerrors

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
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)
)
