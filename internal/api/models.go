package api

import (
	"time"

	"github.com/traintrackhq/traintrack-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the registration endpoint.
// Privilege is never client-settable; new accounts start unprivileged.
type RegisterRequest struct {
	SSN      string `json:"ssn"      validate:"required"`
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1,max=72"`
	Email    string `json:"email"    validate:"required,email"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication
// endpoints. Privilege is the value stored at issuance time; admin
// routes re-check the store on every request regardless.
type AuthResponse struct {
	Token     string `json:"token"`
	Privilege int    `json:"privilege"`
}

// ChangePasswordRequest defines the payload for the self-service
// password change endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=1,max=72"`
}

// ChangeEmailRequest defines the payload for the self-service email
// change endpoint.
type ChangeEmailRequest struct {
	OldEmail string `json:"old_email" validate:"required,email"`
	NewEmail string `json:"new_email" validate:"required,email"`
}

// AdminPasswordRequest defines the payload for the admin password reset.
type AdminPasswordRequest struct {
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// AdminEmailRequest defines the payload for the admin email change.
type AdminEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AdminPrivilegeRequest defines the payload for the admin privilege change.
type AdminPrivilegeRequest struct {
	Privilege *int `json:"privilege" validate:"required,gte=0"`
}

// UserResponse represents a user row in API responses. The password
// hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	SSN       string    `json:"ssn"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Privilege int       `json:"privilege"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveWorkoutRequest represents the request body for recording a workout.
// The owner comes from the session token, never from the payload.
type SaveWorkoutRequest struct {
	Distance float64 `json:"distance" validate:"gte=0"`
	Steps    int     `json:"steps"    validate:"gte=0"`
	Time     string  `json:"time"     validate:"required"`
}

// WorkoutResponse represents a workout row in API responses.
type WorkoutResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Distance  float64   `json:"distance"`
	Steps     int       `json:"steps"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is a minimal acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		SSN:       user.SSN,
		Username:  user.Username,
		Email:     user.Email,
		Privilege: user.Privilege,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func workoutToResponse(workout *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:        workout.ID.String(),
		UserID:    workout.UserID.String(),
		Distance:  workout.Distance,
		Steps:     workout.Steps,
		Time:      workout.Time,
		CreatedAt: workout.CreatedAt,
	}
}
