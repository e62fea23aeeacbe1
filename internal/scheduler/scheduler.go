// Package scheduler triggers one briefing sync per matching day. Two
// interchangeable variants exist: a minute-poll trigger that compares
// wall-clock HH:MM against the configured push time, and a cron-based
// registration evaluated in a fixed timezone.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job is one generation + distribution run.
type Job func(ctx context.Context) error

// DailyTrigger polls once a minute and fires the job at most once per
// calendar day, when the current zero-padded HH:MM equals the configured
// push time. While disabled the poll keeps running but compares nothing.
type DailyTrigger struct {
	log      *zap.Logger
	job      Job
	enabled  func() bool
	pushTime func() string
	interval time.Duration
	now      func() time.Time

	lastFired string
}

func NewDailyTrigger(log *zap.Logger, job Job, enabled func() bool, pushTime func() string) *DailyTrigger {
	return &DailyTrigger{
		log:      log,
		job:      job,
		enabled:  enabled,
		pushTime: pushTime,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Run polls until the context is cancelled. Job failures are logged and
// forgotten; a failed run is not repeated until the next matching day.
func (t *DailyTrigger) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx, t.now())
		}
	}
}

// tick evaluates one poll instant and reports whether the job fired.
func (t *DailyTrigger) tick(ctx context.Context, now time.Time) bool {
	if !t.enabled() {
		return false
	}

	today := now.Format("2006-01-02")
	if now.Format("15:04") != t.pushTime() || t.lastFired == today {
		return false
	}
	t.lastFired = today

	t.log.Info("daily trigger fired", zap.String("at", now.Format("15:04")))
	if err := t.job(ctx); err != nil {
		t.log.Error("scheduled run failed", zap.Error(err))
	}
	return true
}
