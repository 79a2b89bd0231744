// Package credentials hashes and verifies secrets with bcrypt.
//
// Passwords and password-reset tokens both go through Hash/Verify so that
// neither is ever stored in plain text.
package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Cost is the bcrypt work factor (2^10 rounds).
	Cost = 10
	// MinPasswordLength is the minimum length of a password before hashing.
	MinPasswordLength = 6
)

// ErrPasswordTooShort is returned by ValidatePassword for passwords under MinPasswordLength.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// ValidatePassword checks the plain-text password rules.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Hash returns a salted bcrypt hash of plain.
func Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether candidate matches hash. A malformed or empty hash
// is a mismatch, not an error.
func Verify(candidate, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
