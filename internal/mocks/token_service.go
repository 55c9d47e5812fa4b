package mocks

import (
	"context"

	"github.com/traintrackhq/traintrack-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// Function fields for customizable behavior
	IssueTokenFn  func(ctx context.Context, identity auth.Identity) (string, error)
	VerifyTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default response values
	Token     string
	IssueErr  error
	Claims    *auth.Claims
	VerifyErr error

	// LastIssued records the identity passed to the most recent
	// IssueToken call, for assertions.
	LastIssued auth.Identity
}

// Ensure MockTokenService implements auth.TokenService
var _ auth.TokenService = (*MockTokenService)(nil)

// IssueToken implements the TokenService interface
func (m *MockTokenService) IssueToken(ctx context.Context, identity auth.Identity) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, identity)
	}

	m.LastIssued = identity
	if m.IssueErr != nil {
		return "", m.IssueErr
	}
	return m.Token, nil
}

// VerifyToken implements the TokenService interface
func (m *MockTokenService) VerifyToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.VerifyTokenFn != nil {
		return m.VerifyTokenFn(ctx, tokenString)
	}

	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	return m.Claims, nil
}
