package store

import (
	"errors"
	"os"

	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
)

const (
	credentialSection = "credentials"
	// CredentialKey is the fixed name the credential is stored under.
	CredentialKey = "openai_api_key"
	// EnvAPIKey overrides the stored credential.
	EnvAPIKey = "OPENAI_API_KEY"
)

// ErrNoCredential is returned when neither the environment nor the store
// holds a credential.
var ErrNoCredential = errors.New("no API key configured (run `pagesimplify key set` or set OPENAI_API_KEY)")

// APIKey returns the credential, preferring the environment.
func (s *FileStore) APIKey() (string, error) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v, nil
	}
	v, ok := s.Get(credentialSection, CredentialKey)
	key, _ := v.(string)
	if !ok || key == "" {
		return "", ErrNoCredential
	}
	return key, nil
}

// SetAPIKey validates and persists the credential.
func (s *FileStore) SetAPIKey(key string) error {
	if err := simplify.ValidateKey(key); err != nil {
		return err
	}
	s.Set(credentialSection, CredentialKey, key)
	return s.Save()
}
