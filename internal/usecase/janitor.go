package usecase

import (
	"context"
	"log/slog"
	"time"

	"FakeNewsDetector/internal/ports"
)

// Janitor wires a scheduler driver to periodic session eviction.
type Janitor struct {
	driver   ports.Scheduler
	sessions ports.SessionSweeper
	logger   *slog.Logger
}

// NewJanitor returns a helper to start/stop the session sweep.
func NewJanitor(driver ports.Scheduler, sessions ports.SessionSweeper, logger *slog.Logger) *Janitor {
	return &Janitor{driver: driver, sessions: sessions, logger: logger}
}

// Start registers the sweep with the provided scheduler.
func (j *Janitor) Start(ctx context.Context) error {
	if j.driver == nil || j.sessions == nil {
		return nil
	}

	return j.driver.Start(ctx, j.sweep)
}

// Stop tears down the underlying scheduler.
func (j *Janitor) Stop(ctx context.Context) error {
	if j.driver == nil {
		return nil
	}

	return j.driver.Stop(ctx)
}

func (j *Janitor) sweep(now time.Time) {
	removed := j.sessions.Sweep(now)
	if removed > 0 && j.logger != nil {
		j.logger.Info("evicted idle sessions", "count", removed)
	}
}
