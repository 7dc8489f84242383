package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	coreapp "hooklint/internal/core/app"
	"hooklint/internal/data/history"

	tea "github.com/charmbracelet/bubbletea"
)

// runUI drives the watch loop behind a bubbletea dashboard. Quitting the
// dashboard stops the watcher.
func runUI(ctx context.Context, app *coreapp.App, root string, fix bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var trend *history.TrendReport
	if report, err := app.TrendReport(time.Time{}, 50, 24*time.Hour); err == nil {
		trend = &report
	}

	p := tea.NewProgram(initialModel(root, fix, trend), tea.WithAltScreen(), tea.WithContext(ctx))

	app.SetUpdateHandler(func(update coreapp.Update) {
		p.Send(updateMsg{
			result:  update.Result,
			changed: update.Changed,
			err:     update.Err,
			at:      update.At,
		})
	})

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- app.Watch(ctx, fix)
		p.Quit()
	}()

	_, err := p.Run()
	cancel()
	if werr := <-watchErr; werr != nil {
		slog.Error("watch stopped", "error", werr)
		if err == nil {
			err = werr
		}
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
