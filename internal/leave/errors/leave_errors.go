package leaveerrors

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
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Leave request is no longer pending",
		http.StatusConflict,
	)
	ErrNotNeedsInfo = apperror.New(
		apperror.CodeInvalidState,
		"Leave request is not waiting for information",
		http.StatusConflict,
	)
	ErrDecideForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only HR or admin can approve or reject leave requests",
		http.StatusForbidden,
	)
	ErrCancelForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only the requester can cancel a leave request",
		http.StatusForbidden,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have access to this leave request",
		http.StatusForbidden,
	)
)
