package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hooklint/internal/core/errors"
	"hooklint/internal/engine/lint"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
targets = ["./src", "./app"]

[rules]
"enforce-refs-end-with-ref" = "warn"

[languages.javascript]
extensions = [".es6"]

[exclude]
dirs = ["vendor"]
files = ["**/*.min.js"]

[watch]
debounce = "1s"
max_runs_per_second = 0

[output]
format = "JSON"
max_warnings = 0

[fix]
max_passes = 3

[db]
enabled = true
project = "web"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Targets) != 2 || cfg.Targets[0] != "./src" {
		t.Errorf("unexpected targets: %v", cfg.Targets)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerSecond != 0 {
		t.Errorf("explicit max_runs_per_second = 0 must be kept, got %v", cfg.Watch.MaxRunsPerSecond)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected normalized format json, got %q", cfg.Output.Format)
	}
	if cfg.Output.MaxWarnings != 0 {
		t.Errorf("explicit max_warnings = 0 must be kept, got %d", cfg.Output.MaxWarnings)
	}
	if cfg.Fix.MaxPasses != 3 {
		t.Errorf("expected max_passes 3, got %d", cfg.Fix.MaxPasses)
	}
	if len(cfg.Exclude.Dirs) != 1 || cfg.Exclude.Dirs[0] != "vendor" {
		t.Errorf("unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}

	sev, err := cfg.RuleSeverities()
	if err != nil {
		t.Fatal(err)
	}
	if sev["enforce-refs-end-with-ref"] != lint.SeverityWarn {
		t.Errorf("expected warn severity, got %v", sev["enforce-refs-end-with-ref"])
	}

	overrides := cfg.LanguageOverrides()
	if got := overrides["javascript"].Extensions; len(got) != 1 || got[0] != ".es6" {
		t.Errorf("unexpected javascript overrides: %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `version = 1`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("expected default debounce 300ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerSecond != 2 {
		t.Errorf("expected default max_runs_per_second 2, got %v", cfg.Watch.MaxRunsPerSecond)
	}
	if cfg.Output.Format != "stylish" {
		t.Errorf("expected stylish, got %q", cfg.Output.Format)
	}
	if cfg.Output.MaxWarnings != -1 {
		t.Errorf("expected unlimited warnings, got %d", cfg.Output.MaxWarnings)
	}
	if cfg.Fix.MaxPasses != lint.DefaultMaxPasses {
		t.Errorf("expected %d passes, got %d", lint.DefaultMaxPasses, cfg.Fix.MaxPasses)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0] != "." {
		t.Errorf("unexpected default targets: %v", cfg.Targets)
	}
	found := false
	for _, dir := range cfg.Exclude.Dirs {
		if dir == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Errorf("node_modules must be excluded by default: %v", cfg.Exclude.Dirs)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND for missing file, got %v", err)
	}

	_, err = Load(writeConfig(t, "bad = toml = format"))
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR for malformed TOML, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg, err := LoadOrDefault(missing, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Format != "stylish" {
		t.Errorf("expected default config, got format %q", cfg.Output.Format)
	}

	if _, err := LoadOrDefault(missing, false); err == nil {
		t.Error("expected error when the config file is required")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"version", "version = 3", "unsupported config version"},
		{"format", "[output]\nformat = \"xml\"", "output.format"},
		{"severity", "[rules]\nfoo = \"loud\"", "rules.foo"},
		{"rule options", "[rules]\nfoo = [\"warn\", { x = 1 }]", "takes no options"},
		{"language", "[languages.cobol]\nextensions = [\".cbl\"]", "unknown language"},
		{"extension", "[languages.tsx]\nextensions = [\"jsx\"]", "languages"},
		{"glob", "[exclude]\nfiles = [\"[\"]", "exclude.files[0]"},
		{"tracing", "[observability]\nenable_tracing = true", "otlp_endpoint"},
		{"passes clamped", "[fix]\nmax_passes = -2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestRuleSeverities_Forms(t *testing.T) {
	cfg := &Config{Rules: map[string]any{
		"a": "off",
		"b": int64(1),
		"c": []any{"error"},
	}}
	got, err := cfg.RuleSeverities()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]lint.Severity{"a": lint.SeverityOff, "b": lint.SeverityWarn, "c": lint.SeverityError}
	for name, sev := range want {
		if got[name] != sev {
			t.Errorf("%s: expected %v, got %v", name, sev, got[name])
		}
	}

	cfg.SetRule("a", lint.SeverityWarn)
	got, _ = cfg.RuleSeverities()
	if got["a"] != lint.SeverityWarn {
		t.Errorf("SetRule override lost: %v", got["a"])
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HOOKLINT_OUTPUT_FORMAT", "sarif")
	t.Setenv("HOOKLINT_TARGETS", "src, lib ,")
	t.Setenv("HOOKLINT_FIX_MAX_PASSES", "4")
	t.Setenv("HOOKLINT_DB_ENABLED", "true")
	t.Setenv("HOOKLINT_WATCH_DEBOUNCE", "2s")
	t.Setenv("HOOKLINT_OBSERVABILITY_PORT", "not-a-number")

	cfg, err := Load(writeConfig(t, "[output]\nformat = \"json\""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Format != "sarif" {
		t.Errorf("env must win over file, got %q", cfg.Output.Format)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[1] != "lib" {
		t.Errorf("unexpected targets: %v", cfg.Targets)
	}
	if cfg.Fix.MaxPasses != 4 {
		t.Errorf("expected 4 passes, got %d", cfg.Fix.MaxPasses)
	}
	if !cfg.DB.Enabled {
		t.Error("expected db enabled")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.Port != 9464 {
		t.Errorf("invalid env values must be ignored, got port %d", cfg.Observability.Port)
	}
}
