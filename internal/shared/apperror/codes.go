package apperror

const (
	// Client errors (4xx)
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicate           = "DUPLICATE"
	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
