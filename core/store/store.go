// Package store persists the credential and the popup settings in a small
// JSON file, one section per concern.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a sectioned key-value store backed by a JSON file.
type FileStore struct {
	path string
	data map[string]map[string]any
	mu   sync.RWMutex
}

// DefaultPath returns ~/.pagesimplify/state.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pagesimplify", "state.json"), nil
}

// Open loads the store at path. A missing file yields an empty store.
// If path is empty, DefaultPath is used.
func Open(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &FileStore{path: path, data: make(map[string]map[string]any)}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load state from %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var file struct {
		Sections map[string]map[string]any `json:"sections"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to decode state file: %w", err)
	}
	if file.Sections != nil {
		s.data = file.Sections
	}
	return nil
}

// Save writes the store atomically.
func (s *FileStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	raw, err := json.MarshalIndent(struct {
		Sections map[string]map[string]any `json:"sections"`
	}{Sections: s.data}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Get returns the value of key in section.
func (s *FileStore) Get(section, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[section][key]
	return v, ok
}

// Set stores value under key in section. Call Save to persist.
func (s *FileStore) Set(section, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[section] == nil {
		s.data[section] = make(map[string]any)
	}
	s.data[section][key] = value
}

// Path returns the file path of the store.
func (s *FileStore) Path() string { return s.path }
