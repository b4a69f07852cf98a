// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for datachat.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. Precedence, lowest to highest:
//   - Built-in defaults
//   - ~/.datachat/config.toml
//   - .env file in the working directory (if present)
//   - Process environment (DATACHAT_* variables)
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete datachat configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the base URL of the datachat backend
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds. Query answering
	// can take a while, so the default is generous.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// Mouse enables mouse wheel scrolling in the transcript
	Mouse bool `toml:"mouse"`
	// Markdown enables markdown rendering of answers
	Markdown bool `toml:"markdown"`
}

// LogConfig contains log file configuration.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`
	// MaxSizeMB is the log file size that triggers rotation
	MaxSizeMB int `toml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `toml:"max_backups"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:8000",
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			Theme:    "auto",
			Mouse:    true,
			Markdown: true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the datachat configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".datachat"), nil
}

// DefaultPath returns the path to the TOML config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path. A missing
// file is not an error; defaults apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	// A .env in the working directory is a development convenience; the
	// process environment still wins over it.
	_ = godotenv.Load()

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with owner-only
// permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# datachat configuration file")
	fmt.Fprintln(file, "# Generated by datachat - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION AND DEFAULTS
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns the first error found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must include scheme and host", c.API.BaseURL),
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		}
	}

	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		return ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.API.TimeoutSecs),
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		}
	}

	return nil
}

// SetDefaults fills in zero-value fields with defaults, so a partial
// config file behaves like defaults plus overrides.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = defaults.Log.MaxBackups
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DATACHAT_API_URL: overrides api.base_url
//   - DATACHAT_TIMEOUT_SECS: overrides api.timeout_secs
//   - DATACHAT_THEME: overrides ui.theme
//   - DATACHAT_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if baseURL := os.Getenv("DATACHAT_API_URL"); baseURL != "" {
		c.API.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	if timeout := os.Getenv("DATACHAT_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}

	if theme := os.Getenv("DATACHAT_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}

	if level := os.Getenv("DATACHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}
