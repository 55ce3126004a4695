package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError with the failing operation
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrInvalidCredentials is returned by login when the email is unknown or
	// the password does not match. The two cases are deliberately
	// indistinguishable. API layer maps this to 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingRefreshToken is returned when a refresh request carries no
	// token. API layer maps this to 401.
	ErrMissingRefreshToken = errors.New("refresh token is required")

	// ErrRefreshTokenRejected is returned when a refresh token fails
	// verification or is not the user's current one. API layer maps this to 403.
	ErrRefreshTokenRejected = errors.New("refresh token rejected")

	// ErrResetTokenRejected is returned when a password reset token fails
	// verification. API layer maps this to 403.
	ErrResetTokenRejected = errors.New("password reset token rejected")

	// ErrWrongPassword is returned when a password change presents the wrong
	// current password. API layer maps this to 401.
	ErrWrongPassword = errors.New("current password is incorrect")
)

// ServiceError wraps an unexpected failure with the service and operation
// it happened in.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// errNilDependency reports a missing constructor argument.
func errNilDependency(name string) error {
	return fmt.Errorf("%s cannot be nil", name)
}
