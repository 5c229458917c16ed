package leaveerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeValidation,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeValidation,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"start date must not be after end date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidation,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not in a state that allows this action",
		http.StatusBadRequest,
	)
	ErrNotResourceOwner = apperror.New(
		apperror.CodeForbidden,
		"not authorized to act on this leave request",
		http.StatusForbidden,
	)
)
