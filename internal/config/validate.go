package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyBindAddr indicates a missing server bind address.
	ErrEmptyBindAddr = errors.New("empty server bind address")

	// ErrInvalidWorkerPool indicates a non-positive worker pool size.
	ErrInvalidWorkerPool = errors.New("invalid worker pool size")

	// ErrEmptyDataDir indicates a missing storage data directory.
	ErrEmptyDataDir = errors.New("empty storage data directory")

	// ErrInvalidPartSize indicates a non-positive part size budget.
	ErrInvalidPartSize = errors.New("invalid part size")

	// ErrInvalidLockMode indicates an unrecognized lock mode.
	ErrInvalidLockMode = errors.New("invalid lock mode")

	// ErrEmptyCatalogPath indicates a missing catalog database path.
	ErrEmptyCatalogPath = errors.New("empty catalog path")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateServer(&cfg.Server); err != nil {
		errs = append(errs, err)
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err)
	}
	if err := validateLock(&cfg.Lock); err != nil {
		errs = append(errs, err)
	}
	if err := validateCatalog(&cfg.Catalog); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateServer(cfg *ServerConfig) error {
	var errs []error
	if strings.TrimSpace(cfg.BindAddr) == "" {
		errs = append(errs, fmt.Errorf("%w", ErrEmptyBindAddr))
	}
	if cfg.WorkerPool <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidWorkerPool, cfg.WorkerPool))
	}
	return joinErrors(errs)
}

func validateStorage(cfg *StorageConfig) error {
	var errs []error
	if strings.TrimSpace(cfg.DataDir) == "" {
		errs = append(errs, fmt.Errorf("%w", ErrEmptyDataDir))
	}
	if cfg.PartSizeMax <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidPartSize, cfg.PartSizeMax))
	}
	return joinErrors(errs)
}

func validateLock(cfg *LockConfig) error {
	mode := strings.ToLower(cfg.Mode)
	if mode != "try" && mode != "wait" {
		return fmt.Errorf("%w: must be 'try' or 'wait', got %q", ErrInvalidLockMode, cfg.Mode)
	}
	return nil
}

func validateCatalog(cfg *CatalogConfig) error {
	if strings.TrimSpace(cfg.Path) == "" {
		return fmt.Errorf("%w", ErrEmptyCatalogPath)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear
// formatting, matching the teacher's multi-field validation style.
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
