package config

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/discovery"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Mode", "Package Dirs").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validate checks the config without touching the filesystem.
func (c *Config) Validate() error {
	v := &Validator{cfg: c}
	v.validateStatic()

	var errs []error
	for _, r := range v.validations {
		if !r.Passed && !r.Warning {
			errs = append(errs, fmt.Errorf("%s: %s", strings.ToLower(r.Category), r.Message))
		}
	}
	return errors.Join(errs...)
}

// Validator validates a configuration against a repository.
type Validator struct {
	fs          core.FileSystem
	cfg         *Config
	rootDir     string
	validations []ValidationResult
}

// NewValidator creates a new configuration validator.
// The rootDir parameter is the repository root the config applies to.
func NewValidator(fs core.FileSystem, cfg *Config, rootDir string) *Validator {
	return &Validator{
		fs:          fs,
		cfg:         cfg,
		rootDir:     rootDir,
		validations: make([]ValidationResult, 0),
	}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate(ctx context.Context) ([]ValidationResult, error) {
	v.validations = make([]ValidationResult, 0)

	v.validateStatic()
	if err := v.validateRepository(ctx); err != nil {
		return nil, err
	}

	return v.validations, nil
}

func (v *Validator) validateStatic() {
	v.validateMode()
	v.validateManifests()
	v.validatePatterns()
	v.validatePaths()
}

func (v *Validator) validateMode() {
	if _, err := discovery.ParseMode(v.cfg.Mode); err != nil {
		v.addValidation("Mode", false, err.Error(), false)
		return
	}
	v.addValidation("Mode", true, fmt.Sprintf("using %q", v.cfg.Mode), false)
}

func (v *Validator) validateManifests() {
	for _, name := range v.cfg.Manifests {
		known, ok := discovery.LookupManifest(name)
		if !ok || known.Filename != name {
			v.addValidation("Manifests", false,
				fmt.Sprintf("unknown manifest %q (supported: %s)", name, strings.Join(discovery.ManifestNames(), ", ")), false)
		}
	}

	if _, ok := discovery.LookupManifest(v.cfg.RootManifest); !ok {
		v.addValidation("Root Manifest", false,
			fmt.Sprintf("%q is not a supported manifest (supported: %s)", v.cfg.RootManifest, strings.Join(discovery.ManifestNames(), ", ")), false)
	}
}

func (v *Validator) validatePatterns() {
	for _, p := range v.cfg.IgnorePatterns {
		if _, err := regexp.Compile(p); err != nil {
			v.addValidation("Ignore Patterns", false, fmt.Sprintf("invalid regex %q: %v", p, err), false)
		}
	}
}

// validatePaths rejects absolute paths and paths escaping the repository.
func (v *Validator) validatePaths() {
	check := func(category, p string) {
		if p == "" {
			v.addValidation(category, false, "empty path", false)
			return
		}
		slash := filepath.ToSlash(p)
		if filepath.IsAbs(p) || strings.HasPrefix(slash, "/") {
			v.addValidation(category, false, fmt.Sprintf("%q must be relative to the repository root", p), false)
			return
		}
		if clean := path.Clean(slash); clean == ".." || strings.HasPrefix(clean, "../") {
			v.addValidation(category, false, fmt.Sprintf("%q escapes the repository root", p), false)
		}
	}

	for _, dir := range v.cfg.PackageDirs {
		check("Package Dirs", dir)
	}
	check("Root Manifest", v.cfg.RootManifest)
}

// validateRepository reports missing directories and a missing root manifest
// as warnings; the hook itself decides whether they are fatal.
func (v *Validator) validateRepository(ctx context.Context) error {
	if v.fs == nil {
		return nil
	}

	if v.cfg.Mode == string(discovery.ModeDirs) {
		for _, dir := range v.cfg.PackageDirs {
			info, err := v.fs.Stat(ctx, filepath.Join(v.rootDir, filepath.FromSlash(dir)))
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil || !info.IsDir() {
				v.addValidation("Package Dirs", false, fmt.Sprintf("directory %q not found", dir), true)
				continue
			}
			v.addValidation("Package Dirs", true, fmt.Sprintf("directory %q found", dir), false)
		}
	}

	if v.cfg.ShouldBumpRoot() {
		p := filepath.Join(v.rootDir, filepath.FromSlash(v.cfg.RootManifest))
		if _, err := v.fs.Stat(ctx, p); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			v.addValidation("Root Manifest", false, fmt.Sprintf("%q not found", v.cfg.RootManifest), true)
		} else {
			v.addValidation("Root Manifest", true, fmt.Sprintf("%q found", v.cfg.RootManifest), false)
		}
	}

	return nil
}

// addValidation adds a validation result to the list.
func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}
