package usererrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeValidation,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeDuplicate,
		"email is already registered",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNotResourceOwner = apperror.New(
		apperror.CodeForbidden,
		"not authorized to access this user",
		http.StatusForbidden,
	)
	ErrWrongPassword = apperror.New(
		apperror.CodeValidation,
		"current password is incorrect",
		http.StatusBadRequest,
	)
	ErrRoleChangeForbidden = apperror.New(
		apperror.CodeForbidden,
		"only an admin can change roles or salary structure",
		http.StatusForbidden,
	)
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"document not found",
		http.StatusNotFound,
	)
)
