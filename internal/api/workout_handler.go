package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/traintrackhq/traintrack-api/internal/api/middleware"
	"github.com/traintrackhq/traintrack-api/internal/api/shared"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// WorkoutHandler handles the workout endpoints. All routes require an
// authenticated session; ownership derives from the token identity.
type WorkoutHandler struct {
	workoutService *service.WorkoutService
	validator      *validator.Validate
}

// NewWorkoutHandler creates a new WorkoutHandler with the given dependencies.
func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		validator:      validator.New(),
	}
}

// Save handles POST /api/workouts requests.
func (h *WorkoutHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusForbidden, "Authorization required")
		return
	}

	var req SaveWorkoutRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	workout, err := h.workoutService.Save(r.Context(), claims.Identity, service.WorkoutParams{
		Distance: req.Distance,
		Steps:    req.Steps,
		Time:     req.Time,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityNotResolved):
			shared.RespondWithError(w, r,
				http.StatusForbidden, "Session does not match a known user")
		case errors.Is(err, domain.ErrValidation):
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		default:
			shared.RespondWithErrorAndLog(w, r,
				http.StatusInternalServerError, "Failed to save workout", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, workoutToResponse(workout))
}

// List handles GET /api/workouts requests, returning every workout the
// caller owns. No saved workouts yields an empty array, not an error.
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusForbidden, "Authorization required")
		return
	}

	workouts, err := h.workoutService.ListForOwner(r.Context(), claims.Identity)
	if err != nil {
		if errors.Is(err, service.ErrIdentityNotResolved) {
			shared.RespondWithError(w, r,
				http.StatusForbidden, "Session does not match a known user")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list workouts", err)
		return
	}

	responses := make([]WorkoutResponse, 0, len(workouts))
	for _, workout := range workouts {
		responses = append(responses, workoutToResponse(workout))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /api/workouts/{id} requests.
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid workout ID")
		return
	}

	workout, err := h.workoutService.GetByID(r.Context(), workoutID)
	if err != nil {
		if errors.Is(err, store.ErrWorkoutNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Workout not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to fetch workout", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, workoutToResponse(workout))
}
