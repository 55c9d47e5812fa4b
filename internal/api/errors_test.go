package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/traintrackhq/traintrack-api/internal/api"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusForbidden},
		{"expired token", auth.ErrExpiredToken, http.StatusForbidden},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusForbidden},
		{"wrong credential claim", service.ErrWrongCredentialClaim, http.StatusForbidden},
		{"identity not resolved", service.ErrIdentityNotResolved, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"workout not found", store.ErrWorkoutNotFound, http.StatusNotFound},
		{"duplicate username", store.ErrUsernameExists, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"domain validation", domain.ErrNegativeDistance, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped errors unwrap",
			fmt.Errorf("failed to fetch user: %w", store.ErrUserNotFound),
			http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("known errors map to friendly messages", func(t *testing.T) {
		assert.Equal(t, "Invalid credentials", api.GetSafeErrorMessage(service.ErrInvalidCredentials))
		assert.Equal(t, "Username already exists", api.GetSafeErrorMessage(store.ErrUsernameExists))
		assert.Equal(t, "User not found", api.GetSafeErrorMessage(store.ErrUserNotFound))
	})

	t.Run("unknown errors never leak their message", func(t *testing.T) {
		err := errors.New("pq: duplicate key value violates unique constraint users_username_key")
		msg := api.GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag")
	assert.Equal(t, "Invalid Username: required field", api.SanitizeValidationError(err))

	assert.Equal(t, "Validation error", api.SanitizeValidationError(errors.New("something else")))
}
