package attendanceerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeDuplicate,
		"already checked in today",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"already checked out today",
		http.StatusBadRequest,
	)
	ErrNoCheckInToday = apperror.New(
		apperror.CodeNotFound,
		"no check-in record found for today",
		http.StatusNotFound,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrDuplicateRecord = apperror.New(
		apperror.CodeDuplicate,
		"attendance already recorded for this date",
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
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeValidation,
		"invalid time format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrCheckOutBeforeCheckIn = apperror.New(
		apperror.CodeValidation,
		"check-out time must be after check-in time",
		http.StatusBadRequest,
	)
	ErrNotRecordOwner = apperror.New(
		apperror.CodeForbidden,
		"not authorized to view this record",
		http.StatusForbidden,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
)
