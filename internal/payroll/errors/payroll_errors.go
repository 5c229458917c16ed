package payrollerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeValidation,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeValidation,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeValidation,
		"month must be 1-12 and year must be a four digit year",
		http.StatusBadRequest,
	)
	ErrDuplicatePayroll = apperror.New(
		apperror.CodeDuplicate,
		"payroll already exists for this user and period",
		http.StatusBadRequest,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll is already paid",
		http.StatusBadRequest,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"payroll must be approved before it can be paid",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"payroll is not in a state that allows this action",
		http.StatusBadRequest,
	)
	ErrNotResourceOwner = apperror.New(
		apperror.CodeForbidden,
		"not authorized to view this payroll",
		http.StatusForbidden,
	)
)
