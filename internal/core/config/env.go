package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: HOOKLINT_[SECTION]_[KEY] (e.g., HOOKLINT_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "HOOKLINT_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.StateDir, "HOOKLINT_PATHS_STATE_DIR")
	setEnvString(&cfg.Paths.DatabaseDir, "HOOKLINT_PATHS_DATABASE_DIR")
	setEnvList(&cfg.Targets, "HOOKLINT_TARGETS")

	// Output
	setEnvString(&cfg.Output.Format, "HOOKLINT_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "HOOKLINT_OUTPUT_PATH")
	setEnvInt(&cfg.Output.MaxWarnings, "HOOKLINT_OUTPUT_MAX_WARNINGS")
	setEnvBool(&cfg.Output.Color, "HOOKLINT_OUTPUT_COLOR")

	// Fix and workers
	setEnvInt(&cfg.Fix.MaxPasses, "HOOKLINT_FIX_MAX_PASSES")
	setEnvInt(&cfg.Concurrency.Workers, "HOOKLINT_CONCURRENCY_WORKERS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "HOOKLINT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "HOOKLINT_WATCH_MAX_RUNS_PER_SECOND")

	// Database
	setEnvBool(&cfg.DB.Enabled, "HOOKLINT_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "HOOKLINT_DB_PATH")
	setEnvString(&cfg.DB.Project, "HOOKLINT_DB_PROJECT")
	setEnvDuration(&cfg.DB.BusyTimeout, "HOOKLINT_DB_BUSY_TIMEOUT")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "HOOKLINT_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "HOOKLINT_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "HOOKLINT_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "HOOKLINT_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "HOOKLINT_OBSERVABILITY_ENABLE_METRICS")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 0 {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = out
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
