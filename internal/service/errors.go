package service

import "errors"

// Common service errors.
var (
	// ErrInvalidCredentials is returned when a login attempt presents an
	// unknown username or a wrong password. Callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongCredentialClaim is returned when a self-service credential
	// change presents a wrong claim about the prior value (old password
	// or old email).
	ErrWrongCredentialClaim = errors.New("credential claim does not match")

	// ErrNotAdmin is returned when a caller without admin privilege
	// attempts an admin-only operation.
	ErrNotAdmin = errors.New("caller is not an administrator")

	// ErrIdentityNotResolved is returned when a token identity cannot be
	// re-validated against a stored user row.
	ErrIdentityNotResolved = errors.New("token identity does not resolve to a stored user")
)
