package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hooklint/internal/engine/lint"
	"hooklint/internal/engine/parser"
)

const DefaultConfigFile = "hooklint.toml"

type Config struct {
	Version       int                 `toml:"version"`
	Paths         Paths               `toml:"paths"`
	Targets       []string            `toml:"targets"`
	Languages     map[string]Language `toml:"languages"`
	Rules         map[string]any      `toml:"rules"`
	Exclude       Exclude             `toml:"exclude"`
	Watch         Watch               `toml:"watch"`
	Output        Output              `toml:"output"`
	Fix           Fix                 `toml:"fix"`
	Concurrency   Concurrency         `toml:"concurrency"`
	DB            Database            `toml:"db"`
	Observability Observability       `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
	DatabaseDir string `toml:"database_dir"`
}

type Language struct {
	Enabled    *bool    `toml:"enabled"`
	Extensions []string `toml:"extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerSecond bounds re-lint runs; zero or less means unbounded.
	MaxRunsPerSecond float64 `toml:"max_runs_per_second"`
	Burst            int     `toml:"burst"`
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
	// MaxWarnings fails the run when exceeded; negative disables the check.
	MaxWarnings int  `toml:"max_warnings"`
	Color       bool `toml:"color"`
}

type Fix struct {
	MaxPasses int `toml:"max_passes"`
}

type Concurrency struct {
	Workers int `toml:"workers"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Driver      string        `toml:"driver"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
	Project     string        `toml:"project"`
	Retention   int           `toml:"retention"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Port          int    `toml:"port"`
	EnableMetrics bool   `toml:"enable_metrics"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
}

// DefaultConfig is what runs when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg, nil)
	return cfg
}

// RuleSeverities parses the [rules] table. Values may be a severity
// ("off", "warn", "error", 0, 1, 2) or a one-element array holding one.
func (c *Config) RuleSeverities() (map[string]lint.Severity, error) {
	out := make(map[string]lint.Severity, len(c.Rules))
	for _, name := range sortedRuleNames(c.Rules) {
		sev, err := parseRuleSetting(c.Rules[name])
		if err != nil {
			return nil, fmt.Errorf("rules.%s: %w", name, err)
		}
		out[name] = sev
	}
	return out, nil
}

func parseRuleSetting(v any) (lint.Severity, error) {
	switch val := v.(type) {
	case []any:
		if len(val) == 0 {
			return lint.SeverityOff, fmt.Errorf("empty rule setting")
		}
		if len(val) > 1 {
			return lint.SeverityOff, fmt.Errorf("rule takes no options")
		}
		return lint.ParseSeverity(val[0])
	default:
		return lint.ParseSeverity(v)
	}
}

func sortedRuleNames(rules map[string]any) []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LanguageOverrides converts [languages.*] tables for the parser registry.
func (c *Config) LanguageOverrides() map[string]parser.LanguageOverride {
	if len(c.Languages) == 0 {
		return nil
	}
	out := make(map[string]parser.LanguageOverride, len(c.Languages))
	for id, lang := range c.Languages {
		out[strings.ToLower(strings.TrimSpace(id))] = parser.LanguageOverride{
			Enabled:    lang.Enabled,
			Extensions: append([]string(nil), lang.Extensions...),
		}
	}
	return out
}

// SetRule records a CLI override on top of the file's rule table.
func (c *Config) SetRule(name string, sev lint.Severity) {
	if c.Rules == nil {
		c.Rules = make(map[string]any)
	}
	c.Rules[name] = sev.String()
}
