package ports

import (
	"context"
	"time"

	"hooklint/internal/data/history"
	"hooklint/internal/engine/lint"
)

// SourceLinter abstracts single-file lint and fix passes.
type SourceLinter interface {
	Verify(ctx context.Context, path string, src []byte) ([]lint.Message, error)
	VerifyAndFix(ctx context.Context, path string, src []byte) (lint.FixResult, error)
}

// HistoryStore abstracts run-summary persistence for trend workflows.
type HistoryStore interface {
	SaveRun(run history.Run) (string, error)
	LoadRuns(projectKey string, since time.Time, limit int) ([]history.Run, error)
	Prune(projectKey string, keep int) (int64, error)
	Close() error
}

// RunMode names how a run treats fixes.
type RunMode string

const (
	ModeLint       RunMode = "lint"
	ModeFix        RunMode = "fix"
	ModeFixDryRun  RunMode = "fix-dry-run"
	ModeWatch      RunMode = "watch"
	ModeWatchFixes RunMode = "watch-fix"
)

// RunRequest defines a lint operation for driving adapters. Empty Paths
// falls back to the configured targets.
type RunRequest struct {
	Paths []string
	Mode  RunMode
}

// FileResult holds the problems of one file. Source and Output are only
// set in dry-run mode, where Output is the fixed text that was not
// written.
type FileResult struct {
	Path                string
	Messages            []lint.Message
	ErrorCount          int
	WarningCount        int
	FatalErrorCount     int
	FixableErrorCount   int
	FixableWarningCount int
	Fixed               bool
	Source              []byte
	Output              []byte
}

// RunResult aggregates a completed run. Files are sorted by path.
type RunResult struct {
	RunID               string
	Mode                RunMode
	Files               []FileResult
	ErrorCount          int
	WarningCount        int
	FatalErrorCount     int
	FixableErrorCount   int
	FixableWarningCount int
	FixedFiles          int
	RuleCounts          map[string]int
	StartedAt           time.Time
	Duration            time.Duration
}

// FilesWithProblems counts files that carry at least one message.
func (r RunResult) FilesWithProblems() int {
	n := 0
	for _, f := range r.Files {
		if len(f.Messages) > 0 {
			n++
		}
	}
	return n
}

// LintService is the driving-port surface over lint use cases.
type LintService interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
	Scan(paths []string) ([]string, error)
}
