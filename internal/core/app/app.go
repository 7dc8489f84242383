package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"hooklint/internal/core/config"
	"hooklint/internal/core/errors"
	"hooklint/internal/core/ports"
	"hooklint/internal/core/watcher"
	"hooklint/internal/data/history"
	"hooklint/internal/engine/lint"
	"hooklint/internal/engine/parser"
	"hooklint/internal/plugin"
	"hooklint/internal/shared/observability"
	"hooklint/internal/shared/util"

	"golang.org/x/sync/errgroup"
)

// Options carries what the CLI knows beyond the config file.
type Options struct {
	// ConfigPath is watched for reloads in watch mode. Empty disables reload.
	ConfigPath string
	// RuleOverrides win over the [rules] table and survive reloads.
	RuleOverrides map[string]lint.Severity
	History       ports.HistoryStore
	ProjectKey    string
}

type App struct {
	Config *config.Config

	opts   Options
	parser *parser.Parser

	mu     sync.RWMutex
	linter *lint.Linter
	filter *util.PathFilter

	updateMu sync.RWMutex
	onUpdate func(Update)

	runMu   sync.Mutex
	stateMu sync.Mutex
	state   map[string]ports.FileResult

	activeWatcher *watcher.Watcher
	limiter       *util.Limiter
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "app requires a config")
	}

	registry, err := parser.BuildLanguageRegistry(cfg.LanguageOverrides())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "build language registry")
	}
	loader, err := parser.NewGrammarLoaderWithRegistry(registry)
	if err != nil {
		return nil, err
	}

	a := &App{
		opts:   opts,
		parser: parser.NewParser(loader),
		state:  make(map[string]ports.FileResult),
	}
	if err := a.applyConfig(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// applyConfig rebuilds the linter and path filter from cfg. The grammar
// registry is fixed for the life of the app.
func (a *App) applyConfig(cfg *config.Config) error {
	settings, err := cfg.RuleSeverities()
	if err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "parse rule settings")
	}
	for name, sev := range a.opts.RuleOverrides {
		settings[name] = sev
	}

	linter, err := lint.NewLinter(a.parser, plugin.Rules, settings)
	if err != nil {
		return err
	}
	linter.SetMaxPasses(cfg.Fix.MaxPasses)

	filter, err := util.NewPathFilter(cfg.Exclude.Dirs, cfg.Exclude.Files, a.parser.SupportedExtensions())
	if err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "compile exclude patterns")
	}

	a.mu.Lock()
	a.Config = cfg
	a.linter = linter
	a.filter = filter
	a.mu.Unlock()
	return nil
}

func (a *App) snapshot() (*config.Config, *lint.Linter, *util.PathFilter) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config, a.linter, a.filter
}

// ActiveRules lists enabled rules and their severities.
func (a *App) ActiveRules() map[string]lint.Severity {
	_, linter, _ := a.snapshot()
	return linter.ActiveRules()
}

func (a *App) SupportedExtensions() []string {
	return a.parser.SupportedExtensions()
}

// Run lints the requested paths (or the configured targets). In fix mode
// fixed files are rewritten in place; in dry-run mode the fixed text is
// kept on the result instead.
func (a *App) Run(ctx context.Context, req ports.RunRequest) (ports.RunResult, error) {
	return a.run(ctx, req, true)
}

// lintPaths is Run without a history record, for partial watch-mode runs.
func (a *App) lintPaths(ctx context.Context, paths []string, mode ports.RunMode) (ports.RunResult, error) {
	return a.run(ctx, ports.RunRequest{Paths: paths, Mode: mode}, false)
}

func (a *App) run(ctx context.Context, req ports.RunRequest, record bool) (ports.RunResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	cfg, linter, _ := a.snapshot()
	mode := req.Mode
	if mode == "" {
		mode = ports.ModeLint
	}
	paths := req.Paths
	if len(paths) == 0 {
		paths = cfg.Targets
	}

	started := time.Now()
	files, err := a.Scan(paths)
	if err != nil {
		span.RecordError(err)
		return ports.RunResult{}, err
	}

	results := make([]ports.FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(cfg.Concurrency.Workers, len(files)))
	for i, path := range files {
		g.Go(func() error {
			res, err := a.lintFile(gctx, linter, path, mode)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return ports.RunResult{}, err
	}

	result := aggregate(results)
	result.Mode = mode
	result.StartedAt = started.UTC()
	result.Duration = time.Since(started)

	recordRunMetrics(result)
	if record {
		a.saveHistory(&result)
	}
	return result, nil
}

func workerCount(configured, files int) int {
	n := configured
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) lintFile(ctx context.Context, linter *lint.Linter, path string, mode ports.RunMode) (ports.FileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return ports.FileResult{}, errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "read source file"),
			errors.CtxPath, path,
		)
	}

	res := ports.FileResult{Path: path}
	switch mode {
	case ports.ModeFix, ports.ModeFixDryRun, ports.ModeWatchFixes:
		fixed, err := linter.VerifyAndFix(ctx, path, src)
		if err != nil {
			return ports.FileResult{}, err
		}
		res.Messages = fixed.Messages
		res.Fixed = fixed.Fixed
		for rule, n := range fixed.Applied {
			observability.FixesAppliedTotal.WithLabelValues(rule).Add(float64(n))
		}
		if fixed.Fixed {
			if mode == ports.ModeFixDryRun {
				res.Source = src
				res.Output = fixed.Output
			} else if err := util.RewriteFile(path, fixed.Output); err != nil {
				return ports.FileResult{}, errors.AddContext(
					errors.Wrap(err, errors.CodeInternal, "write fixed file"),
					errors.CtxPath, path,
				)
			} else {
				slog.Debug("fixed file", "path", path, "passes", fixed.Passes)
			}
		}
	default:
		msgs, err := linter.Verify(ctx, path, src)
		if err != nil {
			return ports.FileResult{}, err
		}
		res.Messages = msgs
	}

	countFile(&res)
	observability.FilesLintedTotal.Inc()
	return res, nil
}

func countFile(res *ports.FileResult) {
	for _, m := range res.Messages {
		switch m.Severity {
		case lint.SeverityError:
			res.ErrorCount++
			if m.Fatal {
				res.FatalErrorCount++
			}
			if m.Fix != nil {
				res.FixableErrorCount++
			}
		case lint.SeverityWarn:
			res.WarningCount++
			if m.Fix != nil {
				res.FixableWarningCount++
			}
		}
	}
}

func aggregate(files []ports.FileResult) ports.RunResult {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	out := ports.RunResult{Files: files, RuleCounts: make(map[string]int)}
	for _, f := range files {
		out.ErrorCount += f.ErrorCount
		out.WarningCount += f.WarningCount
		out.FatalErrorCount += f.FatalErrorCount
		out.FixableErrorCount += f.FixableErrorCount
		out.FixableWarningCount += f.FixableWarningCount
		if f.Fixed {
			out.FixedFiles++
		}
		for _, m := range f.Messages {
			if m.RuleID != "" {
				out.RuleCounts[m.RuleID]++
			}
		}
	}
	return out
}

func recordRunMetrics(result ports.RunResult) {
	observability.RunDuration.Observe(result.Duration.Seconds())
	observability.LastRunErrors.Set(float64(result.ErrorCount))
	observability.LastRunWarnings.Set(float64(result.WarningCount))
	for _, f := range result.Files {
		for _, m := range f.Messages {
			rule := m.RuleID
			if m.Fatal {
				rule = "fatal"
			}
			observability.DiagnosticsTotal.WithLabelValues(rule, m.Severity.String()).Inc()
		}
	}
}

func (a *App) saveHistory(result *ports.RunResult) {
	store := a.opts.History
	if store == nil {
		return
	}
	cfg, _, _ := a.snapshot()

	id, err := store.SaveRun(history.Run{
		ProjectKey:        a.opts.ProjectKey,
		Timestamp:         result.StartedAt,
		Mode:              string(result.Mode),
		Duration:          result.Duration,
		FilesLinted:       len(result.Files),
		FilesWithProblems: result.FilesWithProblems(),
		ErrorCount:        result.ErrorCount,
		WarningCount:      result.WarningCount,
		FixableCount:      result.FixableErrorCount + result.FixableWarningCount,
		FixedFiles:        result.FixedFiles,
		RuleCounts:        result.RuleCounts,
	})
	if err != nil {
		slog.Warn("failed to save run history", "error", err)
		return
	}
	result.RunID = id

	if pruned, err := store.Prune(a.opts.ProjectKey, cfg.DB.Retention); err != nil {
		slog.Warn("failed to prune run history", "error", err)
	} else if pruned > 0 {
		slog.Debug("pruned run history", "deleted", pruned)
	}
}

// TrendReport loads recorded runs and summarizes them.
func (a *App) TrendReport(since time.Time, limit int, window time.Duration) (history.TrendReport, error) {
	if a.opts.History == nil {
		return history.TrendReport{}, errors.New(errors.CodeNotSupported, "run history is disabled")
	}
	runs, err := a.opts.History.LoadRuns(a.opts.ProjectKey, since, limit)
	if err != nil {
		return history.TrendReport{}, fmt.Errorf("load run history: %w", err)
	}
	return history.BuildTrendReport(a.opts.ProjectKey, runs, window)
}
