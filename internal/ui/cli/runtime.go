package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	coreapp "hooklint/internal/core/app"
	"hooklint/internal/core/config"
	"hooklint/internal/core/ports"
	"hooklint/internal/data/history"
	"hooklint/internal/plugin"
	"hooklint/internal/shared/observability"
	"hooklint/internal/shared/util"
	"hooklint/internal/shared/version"
	"hooklint/internal/ui/report"
	"hooklint/internal/ui/report/formats"

	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK      = 0
	exitProblem = 1
	exitFailure = 2
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	if opts.version {
		fmt.Fprintf(stdout, "hooklint v%s\n", version.Version)
		return exitOK
	}

	cleanupLogs := configureLogging(stderr, opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return exitFailure
	}

	loadDotEnv(cwd)

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		fmt.Fprintf(stderr, "hooklint: %v\n", err)
		return exitFailure
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintf(stderr, "hooklint: %v\n", err)
		return exitFailure
	}

	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(flushCtx); err != nil {
					slog.Warn("failed to flush traces", "error", err)
				}
			}()
		}
	}

	historyStore, err := openHistoryStoreIfEnabled(cfg, paths)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return exitFailure
	}
	if historyStore != nil {
		defer historyStore.Close()
	}

	appOpts := coreapp.Options{
		ConfigPath:    cfgPath,
		RuleOverrides: opts.rules,
		ProjectKey:    config.ProjectName(cfg, paths),
	}
	if historyStore != nil {
		appOpts.History = historyStore
	}
	app, err := coreapp.New(cfg, appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "hooklint: %v\n", err)
		return exitFailure
	}

	if cfg.Observability.Enabled {
		server := NewObservabilityServer(
			fmt.Sprintf(":%d", cfg.Observability.Port),
			cfg.Observability.EnableMetrics,
			coreapp.NewHealthService(app),
		)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return exitFailure
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	if opts.printRules {
		printRules(stdout, app)
		return exitOK
	}

	if opts.historyReport {
		if err := runHistoryReport(stdout, opts, cfg, app); err != nil {
			fmt.Fprintf(stderr, "hooklint: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	if opts.watch {
		return runWatch(ctx, stdout, opts, cfg, paths, app)
	}

	return runOnce(ctx, stdout, stderr, opts, cfg, paths, app)
}

func runOnce(
	ctx context.Context,
	stdout, stderr io.Writer,
	opts cliOptions,
	cfg *config.Config,
	paths config.ResolvedPaths,
	app *coreapp.App,
) int {
	mode := ports.ModeLint
	switch {
	case opts.fix:
		mode = ports.ModeFix
	case opts.fixDryRun:
		mode = ports.ModeFixDryRun
	}

	result, err := app.Run(ctx, ports.RunRequest{Mode: mode})
	if err != nil {
		fmt.Fprintf(stderr, "hooklint: %v\n", err)
		return exitFailure
	}
	slog.Debug("lint run finished",
		"files", len(result.Files),
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"fixed", result.FixedFiles,
		"duration", result.Duration,
	)

	out, err := render(cfg, paths, result)
	if err != nil {
		fmt.Fprintf(stderr, "hooklint: %v\n", err)
		return exitFailure
	}
	if paths.OutputPath != "" {
		if err := util.WriteFileWithDirs(paths.OutputPath, out, 0o644); err != nil {
			fmt.Fprintf(stderr, "hooklint: write report %q: %v\n", paths.OutputPath, err)
			return exitFailure
		}
	} else if len(out) > 0 {
		_, _ = stdout.Write(out)
	}

	return exitCode(stdout, result, cfg.Output.MaxWarnings)
}

func exitCode(stdout io.Writer, result ports.RunResult, maxWarnings int) int {
	if result.ErrorCount > 0 {
		return exitProblem
	}
	if maxWarnings >= 0 && result.WarningCount > maxWarnings {
		fmt.Fprintf(stdout, "hooklint found too many warnings (maximum: %d).\n", maxWarnings)
		return exitProblem
	}
	return exitOK
}

func render(cfg *config.Config, paths config.ResolvedPaths, result ports.RunResult) ([]byte, error) {
	formatter, err := formats.Get(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return formatter(result, formats.Options{
		ProjectRoot: paths.ProjectRoot,
		Rules:       plugin.Rules,
		Color:       cfg.Output.Color && paths.OutputPath == "",
	})
}

func runWatch(
	ctx context.Context,
	stdout io.Writer,
	opts cliOptions,
	cfg *config.Config,
	paths config.ResolvedPaths,
	app *coreapp.App,
) int {
	if opts.ui {
		if err := runUI(ctx, app, paths.ProjectRoot, opts.fix); err != nil {
			slog.Error("failed to run UI", "error", err)
			return exitFailure
		}
		return exitOK
	}

	app.SetUpdateHandler(func(update coreapp.Update) {
		if update.Err != nil {
			fmt.Fprintf(stdout, "hooklint: %v\n", update.Err)
			return
		}
		out, err := render(cfg, paths, update.Result)
		if err != nil {
			slog.Error("failed to render watch update", "error", err)
			return
		}
		fmt.Fprintf(stdout, "[%s] %d files, %d errors, %d warnings\n",
			update.At.Format("15:04:05"),
			len(update.Result.Files),
			update.Result.ErrorCount,
			update.Result.WarningCount,
		)
		_, _ = stdout.Write(out)
	})

	if err := app.Watch(ctx, opts.fix); err != nil {
		slog.Error("watch failed", "error", err)
		return exitFailure
	}
	return exitOK
}

func printRules(w io.Writer, app *coreapp.App) {
	active := app.ActiveRules()
	recommended := plugin.RecommendedSettings()
	names := make([]string, 0, len(plugin.Rules))
	for name := range plugin.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := plugin.Rules[name]
		sev := "off"
		if s, ok := active[name]; ok {
			sev = s.String()
		}
		var tags []string
		if _, ok := recommended[name]; ok {
			tags = append(tags, "recommended")
		}
		if rule.Meta.Fixable != "" {
			tags = append(tags, "fixable")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Fprintf(w, "%-32s %-5s %s%s\n", name, sev, rule.Meta.Docs.Description, suffix)
	}
}

func loadDotEnv(cwd string) {
	path := filepath.Join(cwd, ".env")
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "path", path, "error", err)
	}
}

// loadConfig loads an explicit -config path strictly. Without one, a
// hooklint.toml in cwd is used when present and defaults otherwise.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	candidate := filepath.Join(cwd, config.DefaultConfigFile)
	cfg, err := config.LoadOrDefault(candidate, true)
	if err != nil {
		return nil, "", err
	}
	if _, statErr := os.Stat(candidate); statErr != nil {
		return cfg, "", nil
	}
	return cfg, candidate, nil
}

// applyModeOptions folds flags into cfg and rejects flag combinations
// that make no sense together.
func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.fix && opts.fixDryRun {
		return fmt.Errorf("-fix and -fix-dry-run cannot be combined")
	}
	if opts.ui && !opts.watch {
		return fmt.Errorf("-ui requires -watch")
	}
	if opts.fixDryRun && opts.watch {
		return fmt.Errorf("-fix-dry-run cannot be combined with -watch")
	}
	if opts.historyReport && !opts.history {
		return fmt.Errorf("-history-report requires -history")
	}
	if opts.printRules && (opts.watch || opts.historyReport) {
		return fmt.Errorf("-print-rules cannot be combined with -watch or -history-report")
	}

	if len(opts.args) > 0 {
		cfg.Targets = append([]string(nil), opts.args...)
	}
	if errs := config.ValidateTargets(cfg.Targets); len(errs) > 0 && !opts.printRules && !opts.historyReport {
		return errors.Join(errs...)
	}

	if f := strings.ToLower(strings.TrimSpace(opts.format)); f != "" {
		if _, err := formats.Get(f); err != nil {
			return err
		}
		cfg.Output.Format = f
	}
	if cfg.Output.Format == "diff" && !opts.fixDryRun && !opts.historyReport {
		return fmt.Errorf("-format diff requires -fix-dry-run")
	}
	if opts.outputFile != "" {
		cfg.Output.Path = opts.outputFile
	}
	if opts.maxWarnings != maxWarningsUnset {
		cfg.Output.MaxWarnings = opts.maxWarnings
	}
	if opts.history {
		cfg.DB.Enabled = true
	}

	if opts.historyReport {
		if _, err := parseSince(opts.since); err != nil {
			return err
		}
		if _, err := parseHistoryWindow(opts.historyWindow); err != nil {
			return err
		}
	}
	return nil
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("-since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func parseHistoryWindow(value string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("-history-window must be a Go duration (example: 24h), got %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("-history-window must be > 0, got %q", value)
	}
	return d, nil
}

func openHistoryStoreIfEnabled(cfg *config.Config, paths config.ResolvedPaths) (*history.Store, error) {
	if !cfg.DB.Enabled {
		return nil, nil
	}

	store, err := history.Open(paths.DBPath, cfg.DB.BusyTimeout)
	if err != nil {
		if history.IsCorruptError(err) {
			return nil, fmt.Errorf("history store %q is corrupt; delete it to start over: %w", paths.DBPath, err)
		}
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

func runHistoryReport(w io.Writer, opts cliOptions, cfg *config.Config, app *coreapp.App) error {
	since, err := parseSince(opts.since)
	if err != nil {
		return err
	}
	window, err := parseHistoryWindow(opts.historyWindow)
	if err != nil {
		return err
	}

	trend, err := app.TrendReport(since, opts.historyLimit, window)
	if err != nil {
		return err
	}

	var out []byte
	if cfg.Output.Format == "json" {
		out, err = report.RenderTrendJSON(trend)
	} else {
		out, err = report.RenderTrendTSV(trend)
	}
	if err != nil {
		return fmt.Errorf("render trend report: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func configureLogging(stderr io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	// Reports own stdout; logs go to stderr, or to a file under the UI.
	output := stderr
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hooklint", "hooklint.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "hooklint", "hooklint.log")
	}

	return "hooklint.log"
}
