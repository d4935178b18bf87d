// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatterm.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location:
//   - ~/.chatterm/config.toml
//   - Built-in defaults when absent
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatterm configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Export configuration
	Export ExportConfig `toml:"export"`
}

// APIConfig contains chatbot service connection configuration.
type APIConfig struct {
	// BaseURL is the root URL of the chatbot service
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// TokenFile is the path to the persisted token pair
	// (empty = default ~/.chatterm/tokens.json)
	TokenFile string `toml:"token_file"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light"
	Theme string `toml:"theme"`
	// ShowStats displays the usage stats header above the chat
	ShowStats bool `toml:"show_stats"`
	// ShowIntent displays intent and confidence under bot messages
	ShowIntent bool `toml:"show_intent"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
}

// ExportConfig contains transcript export configuration.
type ExportConfig struct {
	// OutputDir is where exported transcripts are written
	// (empty = current working directory)
	OutputDir string `toml:"output_dir"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
		},
		UI: UIConfig{
			Theme:       "dark",
			ShowStats:   true,
			ShowIntent:  true,
			CompactMode: false,
		},
		Export: ExportConfig{
			OutputDir: ".",
		},
	}
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatterm configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatterm"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// TokenPath resolves the token file path: the configured one when set,
// otherwise ~/.chatterm/tokens.json.
func (c *Config) TokenPath() (string, error) {
	if c.API.TokenFile != "" {
		return c.API.TokenFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tokens.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides:
//
//	CHATTERM_API_URL       overrides api.base_url
//	CHATTERM_TIMEOUT_SECS  overrides api.timeout_secs
//	CHATTERM_TOKEN_FILE    overrides api.token_file
//	CHATTERM_THEME         overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATTERM_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CHATTERM_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("CHATTERM_TOKEN_FILE"); v != "" {
		c.API.TokenFile = v
	}
	if v := os.Getenv("CHATTERM_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = defaults.Export.OutputDir
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url: missing host")
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme: must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath saves the configuration to a TOML file.
// SECURITY: Config files are created 0600 (owner read/write only).
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# chatterm configuration file")
	fmt.Fprintln(file, "# Generated by chatterm - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
