// Package config provides configuration types for the storefront client.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration for the storefront client.
type Config struct {
	// API configures the backend endpoint.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// State configures where durable client state lives.
	State StateConfig `yaml:"state" mapstructure:"state"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// History configures the local operation log.
	History HistoryConfig `yaml:"history" mapstructure:"history"`

	// Telemetry configures tracing output.
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// APIConfig configures the backend endpoint.
type APIConfig struct {
	// BaseURL is the root of the backend REST API.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// StateConfig configures durable client state.
type StateConfig struct {
	// Dir is the directory holding the token file and history database.
	// Default: $HOME/.storefront
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info.
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// HistoryConfig configures the local operation log.
type HistoryConfig struct {
	// Enabled turns the history log on. Default: true.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Path overrides the history database location.
	// Default: <state.dir>/history.db
	Path string `yaml:"path" mapstructure:"path"`

	// MaxEntries bounds the log; older rows are pruned. Default: 1000.
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries" validate:"omitempty,min=1"`
}

// TelemetryConfig configures tracing output.
type TelemetryConfig struct {
	// TracesEnabled emits request spans to stdout when true. Default: false.
	TracesEnabled bool `yaml:"traces_enabled" mapstructure:"traces_enabled"`
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.State.Dir == "" {
		home, _ := os.UserHomeDir()
		c.State.Dir = filepath.Join(home, ".storefront")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = 1000
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.State.Dir, "history.db")
	}
}

// TokenPath returns the location of the persisted token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.State.Dir, "token.json")
}
