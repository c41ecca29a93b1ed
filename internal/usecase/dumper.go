package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"WxCrawler/internal/ports"
)

// Dumper is the pipeline entry point: one full discovery pass per call.
type Dumper struct {
	discoverer *Discoverer
	accounts   ports.AccountRepository
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewDumper wires the entry operation; notifier may be nil.
func NewDumper(discoverer *Discoverer, accounts ports.AccountRepository,
	notifier ports.Notifier, logger *slog.Logger) *Dumper {
	return &Dumper{
		discoverer: discoverer,
		accounts:   accounts,
		notifier:   notifier,
		logger:     logger,
	}
}

// DumpAccounts runs a discovery pass for the keyword string and reports
// elapsed seconds plus the total number of known accounts. The report
// is a progress signal, not a structured result.
func (d *Dumper) DumpAccounts(ctx context.Context, keywords string) error {
	start := time.Now()

	if err := d.discoverer.Discover(ctx, keywords); err != nil {
		return fmt.Errorf("discover %q: %w", keywords, err)
	}

	elapsed := int(time.Since(start).Seconds())
	count, err := d.accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}

	d.logger.Info("dump finished", "keywords", keywords, "elapsed_seconds", elapsed, "accounts", count)

	if d.notifier != nil {
		report := fmt.Sprintf("crawl %q done in %ds, %d accounts known", keywords, elapsed, count)
		if err := d.notifier.PublishReport(ctx, report); err != nil {
			d.logger.Warn("publish report", "error", err)
		}
	}
	return nil
}
