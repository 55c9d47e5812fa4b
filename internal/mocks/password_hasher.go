package mocks

import (
	"errors"

	"github.com/traintrackhq/traintrack-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
// The default implementation "hashes" by prefixing the plaintext, which
// keeps comparisons deterministic and fast in tests.
type MockPasswordHasher struct {
	// Function fields for customizable behavior
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	HashErr error
}

const mockHashPrefix = "hashed:"

// Ensure MockPasswordHasher implements auth.PasswordHasher
var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}

	if m.HashErr != nil {
		return "", m.HashErr
	}
	return mockHashPrefix + password, nil
}

// Compare implements the PasswordHasher interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}

	if hashedPassword != mockHashPrefix+password {
		return errors.New("password mismatch")
	}
	return nil
}

// MockHash returns the hash the default implementation produces for the
// given plaintext, for seeding test fixtures.
func MockHash(password string) string {
	return mockHashPrefix + password
}
