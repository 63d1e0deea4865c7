package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (ANS_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("state-dir", os.Getenv("ANS_STATE_DIR"), &cfg.StateDir)
	s.setString("genesis", os.Getenv("ANS_GENESIS_FILE"), &cfg.GenesisFile)
	s.setString("log-level", os.Getenv("ANS_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("min-length", os.Getenv("ANS_MIN_LENGTH"), &cfg.MinLength); err != nil {
		return err
	}
	if err := s.setIntFromString("max-length", os.Getenv("ANS_MAX_LENGTH"), &cfg.MaxLength); err != nil {
		return err
	}

	s.setBoolFromString("paid", os.Getenv("ANS_PAID"), &cfg.Paid)

	if err := s.setDuration("watch-debounce", os.Getenv("ANS_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	return nil
}
