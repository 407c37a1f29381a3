package simplify

import (
	"errors"
	"strings"
)

// Credential format.
const (
	KeyPrefix    = "sk-"
	KeyMinLength = 21
)

var (
	ErrKeyMissing = errors.New("API key is required")
	ErrKeyFormat  = errors.New(`API key must start with "sk-" and be longer than 20 characters`)
)

// ValidateKey checks the credential format without contacting the provider.
func ValidateKey(key string) error {
	if key == "" {
		return ErrKeyMissing
	}
	if !strings.HasPrefix(key, KeyPrefix) || len(key) < KeyMinLength {
		return ErrKeyFormat
	}
	return nil
}

// MaskKey hides all but the prefix and last four characters.
func MaskKey(key string) string {
	if len(key) <= len(KeyPrefix)+4 {
		return strings.Repeat("*", len(key))
	}
	return key[:len(KeyPrefix)] + strings.Repeat("*", len(key)-len(KeyPrefix)-4) + key[len(key)-4:]
}
