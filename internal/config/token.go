package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// TokenKey is the variable name used in the token file and the environment.
const TokenKey = "T4_TOKEN"

// ErrMissingToken is returned when no access token is configured anywhere.
var ErrMissingToken = errors.New("no CMS access token configured")

// LoadToken resolves the access token. The T4_TOKEN environment variable wins
// over the token file; a missing token file is treated as empty.
func LoadToken(tokenFile string) (string, error) {
	if token := strings.TrimSpace(os.Getenv(TokenKey)); token != "" {
		return token, nil
	}

	values, err := godotenv.Read(tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrMissingToken
		}
		return "", fmt.Errorf("failed to read token file %s: %w", tokenFile, err)
	}

	token := strings.TrimSpace(values[TokenKey])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// SaveToken persists the token to the token file, keeping any other
// variables already stored there.
func SaveToken(tokenFile, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}

	values, err := godotenv.Read(tokenFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read token file %s: %w", tokenFile, err)
		}
		values = make(map[string]string)
	}
	values[TokenKey] = token

	if err := godotenv.Write(values, tokenFile); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", tokenFile, err)
	}
	// godotenv.Write creates the file world-readable.
	return os.Chmod(tokenFile, 0600)
}
