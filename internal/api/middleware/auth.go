package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/traintrackhq/traintrack-api/internal/api/shared"
	"github.com/traintrackhq/traintrack-api/internal/redact"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
)

// AdminChecker reports whether a verified identity currently holds admin
// privilege. Satisfied by service.AccountService.
type AdminChecker interface {
	IsAdmin(ctx context.Context, identity auth.Identity) (bool, error)
}

// AuthMiddleware provides session token authentication for routes.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the session token from the Authorization header
// and adds the verified claims to the request context. A missing,
// malformed, expired, or otherwise invalid token yields 403; the caller
// holds no usable session and gets no hint which check failed.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusForbidden, "Authorization required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid authorization format")
			return
		}

		claims, err := m.tokenService.VerifyToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case isTokenError(err):
				shared.RespondWithError(w, r, http.StatusForbidden, "Invalid token")
			default:
				slog.Error("failed to verify token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route on current admin privilege. The check always
// goes back to the store, so a privilege revoked after token issuance
// takes effect immediately. Apply after Authenticate.
func (m *AuthMiddleware) RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r)
			if !ok {
				shared.RespondWithError(w, r, http.StatusForbidden, "Authorization required")
				return
			}

			isAdmin, err := checker.IsAdmin(r.Context(), claims.Identity)
			if err != nil {
				slog.Error("failed to check admin privilege", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authorization error")
				return
			}
			if !isAdmin {
				shared.RespondWithError(w, r, http.StatusForbidden, "Admin privilege required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims extracts the verified session claims from the request context.
// Returns the claims and a boolean indicating if they were found.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.ClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// isTokenError reports whether the error is one of the expected token
// verification failures, as opposed to an internal fault.
func isTokenError(err error) bool {
	for _, known := range []error{
		auth.ErrMissingToken,
		auth.ErrInvalidToken,
		auth.ErrExpiredToken,
		auth.ErrTokenNotYetValid,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
