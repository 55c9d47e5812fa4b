package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based
// on the error type. This keeps internal error types and messages from
// leaking to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication and credential-claim errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongCredentialClaim),
		errors.Is(err, service.ErrIdentityNotResolved),
		errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Duplicate registration and malformed input
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing error message for
// the error type, never the raw error string.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrWrongCredentialClaim):
		return "Credential claim does not match"

	case errors.Is(err, service.ErrIdentityNotResolved):
		return "Session does not match a known user"

	case errors.Is(err, service.ErrNotAdmin):
		return "Admin privilege required"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrWorkoutNotFound):
		return "Workout not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short
// user-friendly message without echoing submitted values.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Username' Error:Field validation
		// for 'Username' failed on the 'required' tag"
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

// getValidationTagMessage maps validation tags to user-friendly messages.
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
	case "gte":
		return "must not be negative"
	default:
		return "validation failed"
	}
}
