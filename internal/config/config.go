// Package config holds snooper configuration, loaded from .snooper/config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Provider identifiers. The set is fixed at two: each one is the other's
// fallback.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// ErrUnknownProvider is returned when the configured provider is not one of
// the two known backends.
var ErrUnknownProvider = errors.New("unknown provider")

// Default models per provider, used when the config file omits them.
const (
	DefaultClaudeModel = "claude-sonnet-4-20250514"
	DefaultOpenAIModel = "gpt-4o"
)

// Config is the single source of truth for snooper settings.
// It is loaded once per session and treated as immutable afterwards.
type Config struct {
	// Provider selection: "claude" or "openai". The other one is the
	// automatic fallback when this one cannot be constructed.
	Provider string `json:"provider"`

	// Per-provider model settings.
	Claude ProviderSettings `json:"claude"`
	OpenAI ProviderSettings `json:"openai"`

	// PropagateAPIKeyOnFallback controls whether an explicit --api-key is
	// forwarded to the fallback provider. Off by default: an explicit key is
	// almost always scoped to the primary backend, and sending it to the
	// other backend's auth endpoint just produces a confusing 401.
	PropagateAPIKeyOnFallback bool `json:"propagate_api_key_on_fallback,omitempty"`

	// ShowTrace echoes the full captured trace before the analysis.
	ShowTrace bool `json:"show_trace,omitempty"`

	// Logging configuration (consumed by internal/logging).
	Logging *LoggingConfig `json:"logging,omitempty"`
}

// ProviderSettings holds the per-backend knobs.
type ProviderSettings struct {
	Model string `json:"model,omitempty"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Default returns a config with the baked-in defaults applied.
func Default() *Config {
	return &Config{
		Provider: ProviderClaude,
		Claude:   ProviderSettings{Model: DefaultClaudeModel},
		OpenAI:   ProviderSettings{Model: DefaultOpenAIModel},
	}
}

// ClaudeModel returns the configured Claude model, defaulted.
func (c *Config) ClaudeModel() string {
	if c.Claude.Model != "" {
		return c.Claude.Model
	}
	return DefaultClaudeModel
}

// OpenAIModel returns the configured OpenAI model, defaulted.
func (c *Config) OpenAIModel() string {
	if c.OpenAI.Model != "" {
		return c.OpenAI.Model
	}
	return DefaultOpenAIModel
}

// Validate checks the provider selection.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderClaude, ProviderOpenAI:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownProvider, c.Provider, ProviderClaude, ProviderOpenAI)
	}
}

// DefaultPath returns the default path to .snooper/config.json.
func DefaultPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(".snooper", "config.json")
	}
	return filepath.Join(root, ".snooper", "config.json")
}

// FindWorkspaceRoot attempts to find the project root by looking for .snooper
// or go.mod. If not found, returns the current working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".snooper")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}

// Load reads configuration from the given path.
// Returns (nil, nil) when no config file exists yet; the caller is expected
// to run the interactive setup flow before the pipeline proceeds.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the given path, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
