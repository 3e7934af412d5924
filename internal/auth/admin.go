package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// adminBcryptCost is used when hashing operator passwords from the CLI.
const adminBcryptCost = 12

// ErrAdminDenied is returned for a wrong operator password.
var ErrAdminDenied = errors.New("admin credentials rejected")

// HashAdminPassword produces the value stored in admin_password_hash.
func HashAdminPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), adminBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyAdminPassword checks password against a bcrypt hash.
func VerifyAdminPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrAdminDenied
	}
	return nil
}
