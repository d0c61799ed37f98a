package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialValidator decides whether a username/password pair is accepted.
// Implementations must be safe for concurrent use.
type CredentialValidator interface {
	Validate(username, password string) bool
}

// StaticCredentials accepts exactly one username/password pair.
type StaticCredentials struct {
	Username string
	Password string
}

func (c StaticCredentials) Validate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}

// HashedCredentials accepts one username whose password is stored as a bcrypt hash.
type HashedCredentials struct {
	Username     string
	PasswordHash string
}

func (c HashedCredentials) Validate(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) != 1 {
		return false
	}
	return CheckPasswordHash(password, c.PasswordHash)
}

// NewValidator returns HashedCredentials when a hash is given, StaticCredentials otherwise.
func NewValidator(username, password, passwordHash string) CredentialValidator {
	if passwordHash != "" {
		return HashedCredentials{Username: username, PasswordHash: passwordHash}
	}
	return StaticCredentials{Username: username, Password: password}
}

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
