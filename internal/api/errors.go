package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taskify-app/taskify-api/internal/api/shared"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/service"
	"github.com/taskify-app/taskify-api/internal/service/auth"
	"github.com/taskify-app/taskify-api/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// validationPrefix is the text every domain validation error starts with.
var validationPrefix = domain.ErrValidation.Error() + ": "

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMissingRefreshToken),
		errors.Is(err, service.ErrWrongPassword):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, service.ErrRefreshTokenRejected),
		errors.Is(err, service.ErrResetTokenRejected):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, service.ErrMissingRefreshToken):
		return "Refresh token required"
	case errors.Is(err, service.ErrWrongPassword):
		return "Current password is incorrect"

	case errors.Is(err, service.ErrRefreshTokenRejected):
		return "Invalid refresh token"
	case errors.Is(err, service.ErrResetTokenRejected):
		return "Invalid or expired reset token"
	case errors.Is(err, domain.ErrForbidden):
		return "You do not have permission to perform this action"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrListNotFound):
		return "List not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return genericErrorMessage
	}
}

// validationMessage extracts the domain's own description of a validation
// failure, skipping wrapping context added by the service and store layers.
func validationMessage(err error) string {
	var unknown *domain.UnknownCollaboratorError
	if errors.As(err, &unknown) {
		return capitalize(unknown.Error())
	}

	if msg, ok := findValidationText(err); ok {
		return capitalize(msg)
	}
	return "Validation error"
}

// findValidationText walks the error tree depth-first, including errors
// joined with several %w verbs.
func findValidationText(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if msg, ok := strings.CutPrefix(err.Error(), validationPrefix); ok {
		return msg, true
	}
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return findValidationText(e.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if msg, ok := findValidationText(inner); ok {
				return msg, true
			}
		}
	}
	return "", false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. The status and message
// come from the error taxonomy; fallback replaces the generic message of
// internal errors when given.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
