package history

import "time"

const SchemaVersion = 2

// Run is the summary of one lint run.
type Run struct {
	ID                string         `json:"id"`
	ProjectKey        string         `json:"project_key"`
	Timestamp         time.Time      `json:"timestamp"`
	Mode              string         `json:"mode"`
	Duration          time.Duration  `json:"duration_ns"`
	FilesLinted       int            `json:"files_linted"`
	FilesWithProblems int            `json:"files_with_problems"`
	ErrorCount        int            `json:"error_count"`
	WarningCount      int            `json:"warning_count"`
	FixableCount      int            `json:"fixable_count"`
	FixedFiles        int            `json:"fixed_files"`
	RuleCounts        map[string]int `json:"rule_counts,omitempty"`
}

type TrendPoint struct {
	RunID        string    `json:"run_id"`
	Timestamp    time.Time `json:"timestamp"`
	Mode         string    `json:"mode"`
	FilesLinted  int       `json:"files_linted"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	FixedFiles   int       `json:"fixed_files"`
	DeltaErrors  int       `json:"delta_errors"`
	DeltaWarns   int       `json:"delta_warnings"`
	AvgErrors    float64   `json:"avg_errors"`
	AvgWarnings  float64   `json:"avg_warnings"`
	WindowHours  float64   `json:"window_hours"`
}

type TrendReport struct {
	ProjectKey string       `json:"project_key"`
	Since      time.Time    `json:"since"`
	Until      time.Time    `json:"until"`
	Window     string       `json:"window"`
	RunCount   int          `json:"run_count"`
	Points     []TrendPoint `json:"points"`
	// TopRules aggregates rule counts across all runs, highest first.
	TopRules []RuleTotal `json:"top_rules,omitempty"`
}

type RuleTotal struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}
