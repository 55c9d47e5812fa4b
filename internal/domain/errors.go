// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is the base error every field validation error
	// wraps, so callers can match the whole category with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Validation errors for User fields.
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyUsername       = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// Validation errors for Workout fields.
var (
	ErrEmptyWorkoutID    = fmt.Errorf("%w: workout ID cannot be empty", ErrValidation)
	ErrEmptyWorkoutOwner = fmt.Errorf("%w: workout must reference an owning user", ErrValidation)
	ErrNegativeDistance  = fmt.Errorf("%w: distance cannot be negative", ErrValidation)
	ErrNegativeSteps     = fmt.Errorf("%w: steps cannot be negative", ErrValidation)
	ErrEmptyWorkoutTime  = fmt.Errorf("%w: workout time cannot be empty", ErrValidation)
)
