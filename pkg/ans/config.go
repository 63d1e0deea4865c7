package ans

import (
	"fmt"

	"github.com/bft-labs/ans/internal/app"
)

// Config holds the configuration for a Registry.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// StateDir is where the snapshot is kept. Empty keeps state in memory only.
	StateDir string

	// MinLength is the inclusive lower bound on name length in bytes
	MinLength int

	// MaxLength is the inclusive upper bound on name length in bytes
	MaxLength int

	// Paid enables fee-gated reservations
	Paid bool
}

// DefaultConfig returns an in-memory free registry with default bounds.
func DefaultConfig() Config {
	return Config{
		MinLength: app.DefaultMinLength,
		MaxLength: app.DefaultMaxLength,
	}
}

// SetDefaults applies the default length bounds when neither is set.
func (c *Config) SetDefaults() {
	if c.MinLength == 0 && c.MaxLength == 0 {
		c.MinLength = app.DefaultMinLength
		c.MaxLength = app.DefaultMaxLength
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if err := c.policyConfig().Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c Config) policyConfig() app.Config {
	return app.Config{
		MinLength: c.MinLength,
		MaxLength: c.MaxLength,
		Paid:      c.Paid,
	}
}
