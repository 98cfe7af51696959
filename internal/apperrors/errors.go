package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrRateNotFound indicates that no exchange rate exists for the requested
// currency pair on or before the requested date. Callers must not substitute
// a default rate.
var ErrRateNotFound = errors.New("no exchange rate available")

// ErrChainConflict indicates that the activity log tail moved between reading
// the previous hash and committing the new record. The append should be
// retried against the fresh tail.
var ErrChainConflict = errors.New("activity chain tail conflict")

// ErrNegativeBudget indicates a budget window with a negative income or
// expense budget, for which utilization is undefined.
var ErrNegativeBudget = errors.New("budget amounts must not be negative")

// ErrInvalidTransition indicates a status transition the state machine does
// not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// AppError wraps a lower-level failure with an HTTP status code and a message
// safe to return to clients. Repositories use it for storage failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that satisfies errors.Is(err, ErrValidation).
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
