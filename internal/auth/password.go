package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum acceptable password length
	MinPasswordLength = 6

	// bcryptCost is the cost factor for bcrypt hashing
	// 12 is a good balance between security and performance (2025)
	bcryptCost = 12
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

// cost is the bcrypt cost actually used; tests in this package lower it.
var cost = bcryptCost

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}

// ErrPasswordConfirmation is returned when a new password and its
// confirmation differ.
var ErrPasswordConfirmation = errors.New("password confirmation does not match")

// ValidateNewPassword checks a password change request before hashing.
func ValidateNewPassword(password, confirmation string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirmation {
		return ErrPasswordConfirmation
	}
	return nil
}
