package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"WxCrawler/internal/ports"
)

// CronScheduler triggers crawl runs from a cron expression.
type CronScheduler struct {
	cron *cron.Cron
	spec string
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for the given expression and
// timezone.
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{cron: cron.New(cron.WithLocation(loc)), spec: spec}
}

// Start registers the job and begins cron execution.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.spec, func() { job(time.Now()) }); err != nil {
		return fmt.Errorf("schedule %q: %w", c.spec, err)
	}
	c.cron.Start()
	return nil
}

// Stop halts cron execution and waits for a running job to finish.
func (c *CronScheduler) Stop(ctx context.Context) error {
	select {
	case <-c.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
