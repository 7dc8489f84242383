package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.parser != nil {
		status.Components["parser"] = fmt.Sprintf("ok (%d extensions)", len(s.app.parser.SupportedExtensions()))
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	cfg, linter, _ := s.app.snapshot()
	if linter != nil {
		status.Components["linter"] = fmt.Sprintf("ok (%d rules)", len(linter.ActiveRules()))
	} else {
		status.Status = "degraded"
		status.Components["linter"] = "missing"
	}

	if s.app.opts.History != nil {
		status.Components["history"] = "ok"
	} else if cfg != nil && cfg.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if s.app.currentWatcher() != nil {
		status.Components["watcher"] = "ok"
	}

	if err := ctx.Err(); err != nil {
		status.Status = "down"
	}
	return status
}
