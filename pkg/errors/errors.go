package errors

import "fmt"

// ApplicationError represents a domain-specific error
type ApplicationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	cause   error
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *ApplicationError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error without changing the
// user-visible message
func (e *ApplicationError) WithCause(err error) *ApplicationError {
	e.cause = err
	return e
}

// Error constructors
func NewValidationError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  400,
	}
}

func NewNotFoundError(resource string) *ApplicationError {
	return &ApplicationError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func NewConflictError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "CONFLICT",
		Message: message,
		Status:  409,
	}
}

// NewTransactionFailureError wraps a store-level abort. The transaction
// has been rolled back; no partial state is observable.
func NewTransactionFailureError(message string, cause error) *ApplicationError {
	return &ApplicationError{
		Code:    "TRANSACTION_FAILURE",
		Message: message,
		Status:  500,
		cause:   cause,
	}
}

func NewUnauthorizedError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  401,
	}
}

func NewForbiddenError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  403,
	}
}

func NewRequestTimeoutError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "REQUEST_TIMEOUT",
		Message: message,
		Status:  408,
	}
}

func NewTooManyRequestsError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "TOO_MANY_REQUESTS",
		Message: message,
		Status:  429,
	}
}

func NewServiceUnavailableError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  503,
	}
}

func NewInternalError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  500,
	}
}

// IsNotFound reports whether err is an ApplicationError with the
// NOT_FOUND code
func IsNotFound(err error) bool {
	appErr, ok := err.(*ApplicationError)
	return ok && appErr.Code == "NOT_FOUND"
}

// IsConflict reports whether err is an ApplicationError with the
// CONFLICT code
func IsConflict(err error) bool {
	appErr, ok := err.(*ApplicationError)
	return ok && appErr.Code == "CONFLICT"
}
