package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidBackend indicates an unsupported resolution backend
	ErrInvalidBackend = errors.New("invalid resolution backend")

	// ErrInvalidTimeout indicates an invalid extended-pass timeout
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrEmptyDatabase indicates a missing snippet database location
	ErrEmptyDatabase = errors.New("empty snippet database path")

	// ErrInvalidCacheCapacity indicates an invalid file cache capacity
	ErrInvalidCacheCapacity = errors.New("invalid cache capacity")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateAnalysis(&cfg.Analysis); err != nil {
		errs = append(errs, err)
	}

	if err := validateSnippets(&cfg.Snippets); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateAnalysis(cfg *AnalysisConfig) error {
	var errs []error

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	backend := strings.ToLower(cfg.Backend)
	if backend != "local" && backend != "none" {
		errs = append(errs, fmt.Errorf("%w: must be 'local' or 'none', got '%s'", ErrInvalidBackend, cfg.Backend))
	}

	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout_seconds must be positive, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSnippets(cfg *SnippetsConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Database) == "" {
		errs = append(errs, fmt.Errorf("%w: database is required, use ':memory:' for ephemeral runs", ErrEmptyDatabase))
	}

	if cfg.CacheCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_capacity must be positive, got %d", ErrInvalidCacheCapacity, cfg.CacheCapacity))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
