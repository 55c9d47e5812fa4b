package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/traintrackhq/traintrack-api/internal/api/shared"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// AdminHandler handles the admin user-management endpoints. Routes using
// it must be wrapped in Authenticate plus RequireAdmin; the handlers
// themselves perform no privilege checks.
type AdminHandler struct {
	accountService *service.AccountService
	validator      *validator.Validate
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		validator:      validator.New(),
	}
}

// ListUsers handles GET /api/admin/users requests.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accountService.ListUsers(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userToResponse(user))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetUser handles GET /api/admin/users/{id} requests.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.accountService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to fetch user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteUser handles DELETE /api/admin/users/{id} requests. The user and
// every workout they own go in one transaction.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.accountService.DeleteUser(r.Context(), userID); err != nil {
		h.respondMutationError(w, r, err, "Failed to delete user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "User deleted"})
}

// ChangePassword handles PUT /api/admin/users/{id}/password requests.
// No prior-value check; admins reset credentials unconditionally.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req AdminPasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.accountService.AdminChangePassword(r.Context(), userID, req.Password); err != nil {
		h.respondMutationError(w, r, err, "Failed to change password")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Password updated"})
}

// ChangeEmail handles PUT /api/admin/users/{id}/email requests.
func (h *AdminHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req AdminEmailRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.accountService.AdminChangeEmail(r.Context(), userID, req.Email); err != nil {
		h.respondMutationError(w, r, err, "Failed to change email")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Email updated"})
}

// ChangePrivilege handles PUT /api/admin/users/{id}/privilege requests.
func (h *AdminHandler) ChangePrivilege(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req AdminPrivilegeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.accountService.AdminChangePrivilege(r.Context(), userID, *req.Privilege); err != nil {
		h.respondMutationError(w, r, err, "Failed to change privilege")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Privilege updated"})
}

// parseUserID extracts and parses the {id} route parameter. On failure
// it writes the 400 response itself and returns false.
func (h *AdminHandler) parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// respondMutationError maps errors from admin mutations. A mutation that
// touched zero rows means the method had no target to act on, which
// surfaces as 405 rather than 404.
func (h *AdminHandler) respondMutationError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	fallbackMessage string,
) {
	if errors.Is(err, store.ErrUserNotFound) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "User not found")
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, fallbackMessage, err)
}
