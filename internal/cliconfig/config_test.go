package cliconfig

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MinLength != DefaultMinLength {
		t.Errorf("MinLength = %v, want %v", cfg.MinLength, DefaultMinLength)
	}
	if cfg.MaxLength != DefaultMaxLength {
		t.Errorf("MaxLength = %v, want %v", cfg.MaxLength, DefaultMaxLength)
	}
	if cfg.Paid {
		t.Error("Paid should default to false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.StateDir != "" && !strings.Contains(cfg.StateDir, ".ans") {
		t.Errorf("StateDir = %v, should contain .ans", cfg.StateDir)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			StateDir:      "/tmp/ans",
			MinLength:     3,
			MaxLength:     32,
			LogLevel:      "debug",
			WatchDebounce: time.Millisecond,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing state dir", func(c *Config) { c.StateDir = "" }, true},
		{"zero max length", func(c *Config) { c.MaxLength = 0 }, true},
		{"negative min length", func(c *Config) { c.MinLength = -1 }, true},
		{"min above max", func(c *Config) { c.MinLength = 40 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"zero debounce", func(c *Config) { c.WatchDebounce = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger_FallsBackToInfo(t *testing.T) {
	if got := Logger("nonsense").GetLevel().String(); got != "info" {
		t.Errorf("level = %s, want info", got)
	}
	if got := Logger("warn").GetLevel().String(); got != "warn" {
		t.Errorf("level = %s, want warn", got)
	}
}
