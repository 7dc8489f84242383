package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hooklint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	LintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hooklint_lint_file_seconds",
		Help:    "Time spent verifying a single file, fix passes included.",
		Buckets: prometheus.DefBuckets,
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hooklint_run_seconds",
		Help:    "Time spent on a complete lint run.",
		Buckets: prometheus.DefBuckets,
	})

	FilesLintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooklint_files_linted_total",
		Help: "Total number of files linted.",
	})

	ParseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hooklint_parse_errors_total",
		Help: "Total number of files that failed to parse cleanly.",
	}, []string{"language"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hooklint_diagnostics_total",
		Help: "Total number of diagnostics reported, by rule and severity.",
	}, []string{"rule", "severity"})

	FixesAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hooklint_fixes_applied_total",
		Help: "Total number of fixes applied to source text.",
	}, []string{"rule"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooklint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	LastRunErrors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hooklint_last_run_errors",
		Help: "Error count of the most recent lint run.",
	})

	LastRunWarnings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hooklint_last_run_warnings",
		Help: "Warning count of the most recent lint run.",
	})
)
