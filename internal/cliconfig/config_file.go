package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	StateDir      string `toml:"state_dir"`
	GenesisFile   string `toml:"genesis_file"`
	MinLength     *int   `toml:"min_length"`
	MaxLength     *int   `toml:"max_length"`
	Paid          *bool  `toml:"paid"`
	LogLevel      string `toml:"log_level"`
	WatchDebounce string `toml:"watch_debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.ans/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ans", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("genesis", fc.GenesisFile, &cfg.GenesisFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("min-length", fc.MinLength, &cfg.MinLength)
	s.setInt("max-length", fc.MaxLength, &cfg.MaxLength)

	s.setBool("paid", fc.Paid, &cfg.Paid)

	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
