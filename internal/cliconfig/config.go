package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Default name length bounds for the CLI.
const (
	DefaultMinLength = 3
	DefaultMaxLength = 32
)

// Config holds CLI configuration for ans.
type Config struct {
	StateDir    string
	GenesisFile string

	MinLength int
	MaxLength int
	Paid      bool

	LogLevel      string
	WatchDebounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		StateDir:      DefaultStateDir(),
		MinLength:     DefaultMinLength,
		MaxLength:     DefaultMaxLength,
		LogLevel:      "info",
		WatchDebounce: 100 * time.Millisecond,
	}
}

// DefaultStateDir returns ~/.ans/data, or "" if the home directory is unknown.
func DefaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ans", "data")
	}
	return ""
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state-dir is required")
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("max-length must be positive")
	}
	if c.MinLength < 0 {
		return fmt.Errorf("min-length must not be negative")
	}
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("min-length %d exceeds max-length %d", c.MinLength, c.MaxLength)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
// Zero is a valid value; range checks are left to Validate.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero and negative values are applied as-is for Validate to judge.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
