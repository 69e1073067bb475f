// Package auth provides the password-hashing primitives used to produce
// and check the opaque credential stored on a user record. Credential
// verification itself (sessions, tokens) belongs to the external
// authentication collaborator; this package only turns a plaintext
// password into the opaque value that collaborator compares against.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 12
	MaxPasswordLength = 72
)

var (
	// ErrPasswordTooShort is returned when a password is shorter than
	// MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)

	// ErrPasswordTooLong is returned when a password exceeds
	// MaxPasswordLength.
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d characters long", MaxPasswordLength)
)

// HashPassword hashes the plaintext password with bcrypt at the default
// cost, returning the opaque credential to store on the user record.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext
	// equivalent. Returns nil on success, or an error on mismatch.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// IsMismatch reports whether the comparison failure means the password
// simply did not match, as opposed to a malformed hash.
func IsMismatch(err error) bool {
	return errors.Is(err, bcrypt.ErrMismatchedHashAndPassword)
}
