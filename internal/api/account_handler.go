package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/traintrackhq/traintrack-api/internal/api/middleware"
	"github.com/traintrackhq/traintrack-api/internal/api/shared"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// AccountHandler handles registration, login, and the self-service
// credential change endpoints.
type AccountHandler struct {
	accountService *service.AccountService
	tokenService   auth.TokenService
	validator      *validator.Validate
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(
	accountService *service.AccountService,
	tokenService auth.TokenService,
) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		tokenService:   tokenService,
		validator:      validator.New(),
	}
}

// Register handles POST /api/register requests.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.accountService.Register(r.Context(), service.RegisterParams{
		SSN:      req.SSN,
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			// A taken username is a rejected registration payload.
			shared.RespondWithError(w, r, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, domain.ErrValidation):
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		default:
			shared.RespondWithErrorAndLog(w, r,
				http.StatusInternalServerError, "Failed to register user", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Login handles POST /api/login requests. A successful login issues a
// session token embedding the user's identity snapshot.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.accountService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	token, err := h.issueToken(w, r, user)
	if err != nil {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token:     token,
		Privilege: user.Privilege,
	})
}

// ChangePassword handles POST /api/account/password requests. The
// old-password claim is checked against the hash embedded in the
// caller's token; on success a fresh token carrying the new hash is
// returned, since the old one no longer describes the stored credential.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusForbidden, "Authorization required")
		return
	}

	var req ChangePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.accountService.ChangePassword(
		r.Context(), claims.Identity, req.OldPassword, req.NewPassword)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	token, err := h.issueToken(w, r, user)
	if err != nil {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token:     token,
		Privilege: user.Privilege,
	})
}

// ChangeEmail handles POST /api/account/email requests. The old-email
// claim is checked against the currently stored email.
func (h *AccountHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusForbidden, "Authorization required")
		return
	}

	var req ChangeEmailRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err := h.accountService.ChangeEmail(
		r.Context(), claims.Identity, req.OldEmail, req.NewEmail)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Email updated"})
}

// issueToken signs a session token for the user's current identity. On
// failure it writes the error response itself and returns the error so
// callers just bail out.
func (h *AccountHandler) issueToken(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
) (string, error) {
	token, err := h.tokenService.IssueToken(r.Context(), auth.Identity{
		UserID:       user.ID,
		Username:     user.Username,
		PasswordHash: user.HashedPassword,
		Privilege:    user.Privilege,
	})
	if err != nil {
		slog.Error("failed to issue session token",
			"error", err, "user_id", user.ID)
		shared.RespondWithError(w, r,
			http.StatusInternalServerError, "Failed to generate session token")
		return "", err
	}
	return token, nil
}
