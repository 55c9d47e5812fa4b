// Package auth provides stateless session-token issuance and
// verification, plus password hashing.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is the caller identity embedded in a session token.
//
// PasswordHash is the bcrypt hash that was current when the token was
// issued. Self-service password changes compare the caller's old-password
// claim against this embedded hash, never against a fresh store read, so
// a store-side password change does not affect the comparison until a
// new token is issued. The hash is not reversible, which is why it may
// ride inside the signed token where the original design carried the
// plaintext password.
type Identity struct {
	UserID       uuid.UUID `json:"uid"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"phash"`
	Privilege    int       `json:"privilege"`
}

// Claims is the verified content of a session token: the embedded
// identity plus the registered token metadata.
type Claims struct {
	Identity

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// TokenService defines operations for managing session tokens.
// Tokens are self-contained; the store holds no session table and tokens
// are never revoked server-side.
type TokenService interface {
	// IssueToken creates a signed session token embedding the identity.
	// Returns the token string or an error if signing fails.
	IssueToken(ctx context.Context, identity Identity) (string, error)

	// VerifyToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken, ErrTokenNotYetValid or
	// ErrInvalidToken when validation fails.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}
