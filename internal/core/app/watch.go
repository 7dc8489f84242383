package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"hooklint/internal/core/config"
	"hooklint/internal/core/ports"
	"hooklint/internal/core/watcher"
	"hooklint/internal/shared/util"
)

// Update is the watch-mode state pushed to the UI after every run.
type Update struct {
	Result  ports.RunResult
	Changed []string
	Err     error
	At      time.Time
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emit(u Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(u)
	}
}

// CurrentUpdate aggregates the last known result of every watched file.
func (a *App) CurrentUpdate() Update {
	a.stateMu.Lock()
	files := make([]ports.FileResult, 0, len(a.state))
	for _, f := range a.state {
		files = append(files, f)
	}
	a.stateMu.Unlock()

	result := aggregate(files)
	result.Mode = ports.ModeWatch
	return Update{Result: result, At: time.Now()}
}

// Watch lints every target once, then re-lints changed files until ctx is
// cancelled. With fix set, fixes are written back as files change. Config
// edits reload rules and excludes and trigger a full run.
func (a *App) Watch(ctx context.Context, fix bool) error {
	mode := ports.ModeWatch
	if fix {
		mode = ports.ModeWatchFixes
	}

	cfg, _, filter := a.snapshot()
	a.setLimiter(cfg)

	a.fullRun(ctx, mode)

	w, err := watcher.NewWatcher(cfg.Watch.Debounce, filter, func(paths []string) {
		a.HandleChanges(ctx, mode, paths)
	})
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.activeWatcher = w
	a.mu.Unlock()
	if err := w.Watch(watchRoots(cfg.Targets)); err != nil {
		_ = w.Close()
		return err
	}
	defer w.Close()

	if a.opts.ConfigPath != "" {
		cw := config.NewWatcher(a.opts.ConfigPath, func(next *config.Config) {
			a.reload(ctx, mode, next)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config reload disabled", "path", a.opts.ConfigPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	slog.Info("watching for changes", "targets", cfg.Targets)
	<-ctx.Done()
	return nil
}

func watchRoots(targets []string) []string {
	seen := make(map[string]bool, len(targets))
	roots := make([]string, 0, len(targets))
	for _, t := range targets {
		root := filepath.Clean(t)
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	sort.Strings(roots)
	return roots
}

func (a *App) setLimiter(cfg *config.Config) {
	a.mu.Lock()
	a.limiter = util.NewLimiter(cfg.Watch.MaxRunsPerSecond, cfg.Watch.Burst)
	a.mu.Unlock()
}

func (a *App) currentLimiter() *util.Limiter {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.limiter
}

func (a *App) currentWatcher() *watcher.Watcher {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeWatcher
}

func (a *App) fullRun(ctx context.Context, mode ports.RunMode) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	result, err := a.Run(ctx, ports.RunRequest{Mode: mode})
	if err != nil {
		slog.Error("lint run failed", "error", err)
		a.emit(Update{Err: err, At: time.Now()})
		return
	}

	a.stateMu.Lock()
	a.state = make(map[string]ports.FileResult, len(result.Files))
	for _, f := range result.Files {
		a.state[f.Path] = f
	}
	a.stateMu.Unlock()

	u := a.CurrentUpdate()
	u.Result.RunID = result.RunID
	a.emit(u)
}

// HandleChanges re-lints the changed files and drops removed ones from the
// watch state. Runs are bounded by the configured rate limit.
func (a *App) HandleChanges(ctx context.Context, mode ports.RunMode, paths []string) {
	if limiter := a.currentLimiter(); limiter != nil {
		waited, err := limiter.Wait(ctx)
		if err != nil {
			return
		}
		if waited > 0 {
			slog.Debug("re-lint throttled", "waited", waited)
		}
	}

	a.runMu.Lock()
	defer a.runMu.Unlock()

	slog.Info("detected changes", "count", len(paths))
	existing := make([]string, 0, len(paths))
	a.stateMu.Lock()
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			delete(a.state, filepath.Clean(p))
			continue
		}
		existing = append(existing, p)
	}
	a.stateMu.Unlock()

	if len(existing) > 0 {
		result, err := a.lintPaths(ctx, existing, mode)
		if err != nil {
			slog.Error("lint run failed", "error", err)
			a.emit(Update{Err: err, Changed: paths, At: time.Now()})
			return
		}
		a.stateMu.Lock()
		for _, f := range result.Files {
			a.state[f.Path] = f
		}
		a.stateMu.Unlock()
	}

	u := a.CurrentUpdate()
	u.Changed = paths
	a.emit(u)
}

func (a *App) reload(ctx context.Context, mode ports.RunMode, next *config.Config) {
	if err := a.applyConfig(next); err != nil {
		slog.Error("config reload rejected", "error", err)
		return
	}
	cfg, _, filter := a.snapshot()
	a.setLimiter(cfg)
	if w := a.currentWatcher(); w != nil {
		w.SetFilter(filter)
		w.SetDebounce(cfg.Watch.Debounce)
	}
	slog.Info("config reloaded", "rules", len(a.ActiveRules()))
	a.fullRun(ctx, mode)
}
