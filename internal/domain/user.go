package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdminPrivilege is the privilege value that marks a user as an
// administrator. Any other value denotes a regular user.
const AdminPrivilege = 1

// User represents a registered user of the TrainTrack application.
// Passwords are never stored in plain text; only the bcrypt hash is
// persisted and the plaintext field exists transiently during
// registration and credential changes.
type User struct {
	ID             uuid.UUID `json:"id"`
	SSN            string    `json:"ssn"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, transient; hashed before storage
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Privilege      int       `json:"privilege"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given registration fields.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(ssn, username, password, email string, privilege int) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		SSN:       ssn,
		Username:  username,
		Email:     email,
		Password:  password, // Must be hashed before storage
		Privilege: privilege,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// IsAdmin reports whether the user carries the admin privilege.
func (u *User) IsAdmin() bool {
	return u.Privilege == AdminPrivilege
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		// bcrypt silently truncates beyond 72 bytes, so reject longer
		// inputs rather than hashing a prefix.
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else {
		// Existing users loaded from the store carry only the hash.
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return true
}
