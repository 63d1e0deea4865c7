package app

import (
	"fmt"

	"github.com/bft-labs/ans/internal/domain"
)

// Default name length bounds.
const (
	DefaultMinLength = 3
	DefaultMaxLength = 32
)

// Config holds the policy's fixed parameters.
type Config struct {
	// MinLength is the inclusive lower bound on name length in bytes
	MinLength int

	// MaxLength is the inclusive upper bound on name length in bytes
	MaxLength int

	// Paid enables the fee-gated reservation path
	Paid bool
}

// DefaultConfig returns the free variant with default length bounds.
func DefaultConfig() Config {
	return Config{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
	}
}

// Validate checks the length bounds.
func (c Config) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("%w: max length must be positive", domain.ErrInvalidConfig)
	}
	if c.MinLength < 0 {
		return fmt.Errorf("%w: min length must not be negative", domain.ErrInvalidConfig)
	}
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("%w: min length %d exceeds max length %d", domain.ErrInvalidConfig, c.MinLength, c.MaxLength)
	}
	return nil
}
