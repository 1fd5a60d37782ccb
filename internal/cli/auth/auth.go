package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "gymfeetrack-cli"

	// TokenKey is the fixed name the credential token is stored under.
	TokenKey = "authToken"
)

// ErrNotAuthenticated is returned by LoadToken when no credential is stored
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'gymctl login' first")

// SaveToken persists the credential token securely in the OS keychain/credential manager
func SaveToken(token string) error {
	if err := keyring.Set(service, TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the credential token from the OS keychain/credential manager
func LoadToken() (string, error) {
	token, err := keyring.Get(service, TokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// DeleteToken removes the credential token from the OS keychain/credential manager
func DeleteToken() error {
	if err := keyring.Delete(service, TokenKey); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
