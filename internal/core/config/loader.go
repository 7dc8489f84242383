package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"hooklint/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("ignoring unknown config keys", "path", path, "keys", undecoded)
	}

	applyDefaults(&cfg, md.IsDefined)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file
// does not exist and missingOK is set.
func LoadOrDefault(path string, missingOK bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if missingOK && errors.IsCode(err, errors.CodeNotFound) {
		cfg = DefaultConfig()
		ApplyEnvOverrides(cfg)
		normalize(cfg)
		if err := validate(cfg); err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid environment overrides")
		}
		return cfg, nil
	}
	return nil, err
}

// applyDefaults fills unset fields. defined reports whether a key was
// present in the file, for fields whose zero value is meaningful.
func applyDefaults(cfg *Config, defined func(key ...string) bool) {
	if defined == nil {
		defined = func(...string) bool { return false }
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = ".hooklint"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = cfg.Paths.StateDir
	}

	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build", "coverage"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if !defined("watch", "max_runs_per_second") {
		cfg.Watch.MaxRunsPerSecond = 2
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "stylish"
	}
	if !defined("output", "max_warnings") {
		cfg.Output.MaxWarnings = -1
	}

	if cfg.Fix.MaxPasses <= 0 {
		cfg.Fix.MaxPasses = 10
	}

	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if cfg.DB.Retention <= 0 {
		cfg.DB.Retention = 500
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}
}

func normalize(cfg *Config) {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.DB.Project = strings.TrimSpace(cfg.DB.Project)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	targets := cfg.Targets[:0]
	for _, t := range cfg.Targets {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	cfg.Targets = targets
}
