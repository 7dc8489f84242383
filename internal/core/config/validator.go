package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"hooklint/internal/engine/parser"

	"github.com/gobwas/glob"
)

var validFormats = map[string]bool{
	"stylish": true,
	"json":    true,
	"sarif":   true,
	"diff":    true,
}

func validate(cfg *Config) error {
	return stderrors.Join(Validate(cfg)...)
}

// Validate reports every structural problem in cfg. Rule names are checked
// later against the rule registry.
func Validate(cfg *Config) []error {
	var errs []error

	if err := validateVersion(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateRules(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateLanguages(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateExclude(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateWatch(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateDatabase(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateObservability(cfg); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateRules(cfg *Config) error {
	_, err := cfg.RuleSeverities()
	return err
}

func validateLanguages(cfg *Config) error {
	for id, lang := range cfg.Languages {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("languages key must not be empty")
		}
		for _, ext := range lang.Extensions {
			if strings.TrimSpace(ext) == "" {
				return fmt.Errorf("languages.%s.extensions must not include empty values", id)
			}
		}
	}
	if _, err := parser.BuildLanguageRegistry(cfg.LanguageOverrides()); err != nil {
		return fmt.Errorf("languages: %w", err)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Files {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.files[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("exclude.files[%d] %q: %w", i, pattern, err)
		}
	}
	for i, dir := range cfg.Exclude.Dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("exclude.dirs[%d] must not be empty", i)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be one of: stylish, json, sarif, diff (got %q)", cfg.Output.Format)
	}
	if cfg.Fix.MaxPasses < 1 {
		return fmt.Errorf("fix.max_passes must be >= 1")
	}
	if cfg.Concurrency.Workers < 0 {
		return fmt.Errorf("concurrency.workers must not be negative")
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	obs := cfg.Observability
	if obs.Enabled && (obs.Port <= 0 || obs.Port > 65535) {
		return fmt.Errorf("observability.port must be between 1 and 65535, got %d", obs.Port)
	}
	if obs.EnableTracing && obs.OTLPEndpoint == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when enable_tracing is set")
	}
	return nil
}

// ValidateTargets reports targets that do not exist on disk.
func ValidateTargets(targets []string) []error {
	var errs []error
	for i, path := range targets {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("targets[%d] %q does not exist", i, path))
		}
	}
	return errs
}
