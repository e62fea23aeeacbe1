package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TimeToCron maps an "HH:MM" push time to a five-field cron expression.
func TimeToCron(pushTime string) (string, error) {
	parts := strings.SplitN(pushTime, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid push time %q, want HH:MM", pushTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in push time %q", pushTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in push time %q", pushTime)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// CronScheduler keeps a single daily cron registration evaluated in a fixed
// timezone. Restarting replaces any prior registration. Job errors are
// logged; the process keeps running for the next tick.
type CronScheduler struct {
	log  *zap.Logger
	loc  *time.Location
	cron *cron.Cron
}

func NewCronScheduler(timezone string, log *zap.Logger) (*CronScheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &CronScheduler{log: log, loc: loc}, nil
}

func (s *CronScheduler) Start(pushTime string, job Job) error {
	expr, err := TimeToCron(pushTime)
	if err != nil {
		return err
	}

	s.Stop()

	c := cron.New(cron.WithLocation(s.loc))
	_, err = c.AddFunc(expr, func() {
		s.log.Info("cron trigger fired", zap.String("schedule", expr))
		if err := job(context.Background()); err != nil {
			s.log.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("register cron schedule: %w", err)
	}

	c.Start()
	s.cron = c
	s.log.Info("cron scheduler started",
		zap.String("pushTime", pushTime),
		zap.String("schedule", expr),
		zap.String("timezone", s.loc.String()),
	)
	return nil
}

func (s *CronScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
