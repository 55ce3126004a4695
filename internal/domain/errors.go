package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the caller is known but lacks permission
	// for the requested operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)
)

// User validation errors.
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyName           = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most %d characters long", ErrValidation, MaxPasswordLength)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// List and task validation errors.
var (
	ErrEmptyTitle     = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyOwnerID   = fmt.Errorf("%w: owner ID cannot be empty", ErrValidation)
	ErrEmptyListID    = fmt.Errorf("%w: list ID cannot be empty", ErrValidation)
	ErrNullNotAllowed = fmt.Errorf("%w: field cannot be null", ErrValidation)
)

// UnknownCollaboratorError reports an invited e-mail that belongs to no user.
type UnknownCollaboratorError struct {
	Email string
}

func (e *UnknownCollaboratorError) Error() string {
	return fmt.Sprintf("no registered user with email %q", e.Email)
}

// Unwrap makes the error match ErrValidation.
func (e *UnknownCollaboratorError) Unwrap() error {
	return ErrValidation
}
