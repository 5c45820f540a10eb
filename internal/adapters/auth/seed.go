package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
)

// HashPassword returns the bcrypt hash stored in the users table
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// EnsureUser creates username with password and role, or resets the password of an
// existing account
func EnsureUser(ctx context.Context, users domainAuth.UserRepository, username, password, role string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := users.Save(ctx, &domainAuth.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}); err != nil {
		return fmt.Errorf("failed to seed user %s: %w", username, err)
	}
	return nil
}
