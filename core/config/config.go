// Package config loads the YAML configuration file. Every section has
// defaults, so a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/pagesimplify/core/pipeline"
	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"gopkg.in/yaml.v3"
)

// Config is the whole file.
type Config struct {
	Provider simplify.Config `yaml:"provider"`
	Selector selector.Rules  `yaml:"selector"`
	Pipeline pipeline.Config `yaml:"pipeline"`
	Log      LogConfig       `yaml:"log"`
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // console, json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider: simplify.DefaultConfig(),
		Selector: selector.DefaultRules(),
		Pipeline: pipeline.DefaultConfig(),
		Log:      LogConfig{Level: "info", Encoding: "console"},
	}
}

// DefaultPath returns ~/.pagesimplify/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pagesimplify", "config.yaml"), nil
}

// Load reads path over the defaults. If path is empty, DefaultPath is used
// and may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	s := c.Selector
	if s.MinLength < 0 || s.MaxLength < 0 {
		return fmt.Errorf("selector lengths must not be negative")
	}
	if s.MaxLength > 0 && s.MinLength > s.MaxLength {
		return fmt.Errorf("selector.min_length (%d) exceeds max_length (%d)", s.MinLength, s.MaxLength)
	}
	if r := s.MinLetterRatio; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("selector.min_letter_ratio must be within [0, 1], got %v", *r)
	}
	if s.MaxCandidates < 0 {
		return fmt.Errorf("selector.max_candidates must not be negative")
	}
	if c.Pipeline.BatchSize < 0 {
		return fmt.Errorf("pipeline.batch_size must not be negative")
	}
	if c.Pipeline.ItemDelay < 0 || c.Pipeline.BatchDelay < 0 {
		return fmt.Errorf("pipeline delays must not be negative")
	}
	if c.Provider.MaxTokens < 0 {
		return fmt.Errorf("provider.max_tokens must not be negative")
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be within [0, 2], got %v", c.Provider.Temperature)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.encoding %q is not one of console, json", c.Log.Encoding)
	}
	return nil
}
