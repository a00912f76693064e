package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the top-level libconsole configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Console  ConsoleConfig  `mapstructure:"console" yaml:"console"`
	Demo     DemoConfig     `mapstructure:"demo" yaml:"demo"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SessionConfig controls where the bearer token is kept between runs.
type SessionConfig struct {
	TokenFile string `mapstructure:"token_file" yaml:"token_file"`
}

// DefaultsConfig holds default values for operations.
type DefaultsConfig struct {
	LoanDays int `mapstructure:"loan_days" yaml:"loan_days"`
}

// ConsoleConfig tunes the interactive console.
type ConsoleConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// DemoConfig controls the offline/demo dataset substituted when list fetches fail.
// File replaces the built-in dataset when set.
type DemoConfig struct {
	Fallback bool   `mapstructure:"fallback" yaml:"fallback"`
	File     string `mapstructure:"file" yaml:"file,omitempty"`
}

// EffectiveLoanDays returns the configured loan period, or 14 days.
func (d DefaultsConfig) EffectiveLoanDays() int {
	if d.LoanDays > 0 {
		return d.LoanDays
	}
	return 14
}

// EffectiveDebounce returns the configured search debounce, or 300ms.
func (c ConsoleConfig) EffectiveDebounce() time.Duration {
	if c.Debounce > 0 {
		return c.Debounce
	}
	return 300 * time.Millisecond
}

// Validate reports the first structural problem in the config.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.Defaults.LoanDays < 0 {
		return fmt.Errorf("defaults.loan_days must not be negative")
	}
	if c.Session.TokenFile == "" {
		return fmt.Errorf("session.token_file is required")
	}
	return nil
}
