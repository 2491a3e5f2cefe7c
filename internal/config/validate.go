package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidTabSize indicates a non-positive editor tab size
	ErrInvalidTabSize = errors.New("invalid tab size")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrEmptyPatterns indicates a pattern list that selects nothing
	ErrEmptyPatterns = errors.New("empty pattern list")

	// ErrInvalidRoot indicates an absolute or escaping project-relative root
	ErrInvalidRoot = errors.New("invalid root")

	// ErrInvalidPackageDir indicates a builder package that is not a Java identifier
	ErrInvalidPackageDir = errors.New("invalid builder package directory")

	// ErrInvalidRepairSettings indicates negative repair loop settings
	ErrInvalidRepairSettings = errors.New("invalid repair settings")

	// ErrInvalidDebounce indicates a non-positive debounce interval
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Editor.TabSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: tab_size must be positive, got %d", ErrInvalidTabSize, cfg.Editor.TabSize))
	}
	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if err := validateBuilder(&cfg.Builder); err != nil {
		errs = append(errs, err)
	}
	if cfg.Watch.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms must be positive, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	for name, root := range map[string]string{"source_root": cfg.SourceRoot, "java_root": cfg.JavaRoot} {
		if root == "" {
			continue
		}
		clean := filepath.ToSlash(filepath.Clean(root))
		if filepath.IsAbs(root) || clean == ".." || strings.HasPrefix(clean, "../") {
			errs = append(errs, fmt.Errorf("%w: %s must be relative to the project, got '%s'", ErrInvalidRoot, name, root))
		}
	}

	if len(cfg.Views) == 0 {
		errs = append(errs, fmt.Errorf("%w: views requires at least one pattern", ErrEmptyPatterns))
	}
	if len(cfg.Controllers) == 0 {
		errs = append(errs, fmt.Errorf("%w: controllers requires at least one pattern", ErrEmptyPatterns))
	}

	patterns := append(append(append([]string(nil), cfg.Views...), cfg.Controllers...), cfg.Ignore...)
	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateBuilder(cfg *BuilderConfig) error {
	var errs []error

	if !isJavaIdentifier(cfg.PackageDir) {
		errs = append(errs, fmt.Errorf("%w: '%s'", ErrInvalidPackageDir, cfg.PackageDir))
	}
	if cfg.RepairRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: repair_retries cannot be negative, got %d", ErrInvalidRepairSettings, cfg.RepairRetries))
	}
	if cfg.RepairIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("%w: repair_interval_ms cannot be negative, got %d", ErrInvalidRepairSettings, cfg.RepairIntervalMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		letter := c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
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
