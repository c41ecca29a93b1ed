package usecase

import (
	"context"
	"log/slog"
	"time"

	"WxCrawler/internal/ports"
)

// Scheduler wires the cron-like driver with recurring dump runs.
type Scheduler struct {
	driver   ports.Scheduler
	dumper   *Dumper
	keywords []string
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring crawl runs.
func NewScheduler(driver ports.Scheduler, dumper *Dumper, keywords []string, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, dumper: dumper, keywords: keywords, logger: logger}
}

// Start registers the dump job with the provided scheduler driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.dumper == nil {
		return nil
	}

	job := func(trigger time.Time) {
		for _, keywords := range s.keywords {
			if err := s.dumper.DumpAccounts(ctx, keywords); err != nil {
				s.logger.Error("scheduled dump failed", "keywords", keywords, "error", err)
				return
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
