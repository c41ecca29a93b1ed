package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"WxCrawler/internal/config"
	"WxCrawler/internal/infrastructure/fetch"
	"WxCrawler/internal/infrastructure/parser"
	"WxCrawler/internal/infrastructure/scheduler"
	"WxCrawler/internal/infrastructure/storage"
	"WxCrawler/internal/infrastructure/telegram"
	"WxCrawler/internal/ports"
	"WxCrawler/internal/usecase"
)

// Application wires configuration into the crawl pipeline.
type Application struct {
	cfg    config.Config
	db     *sql.DB
	dumper *usecase.Dumper
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, logger *slog.Logger) (*Application, error) {
	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	accounts := storage.NewAccountRepository(db)
	articles := storage.NewArticleRepository(db)
	fetcher := fetch.NewFetcher(nil, cfg.Crawler.UserAgent)
	weixin := parser.NewWeixinExtractor(cfg.Crawler.PublisherRoot)

	enricher := usecase.NewEnricher(fetcher, articles, weixin,
		logger.With("component", "enricher"))
	feed := usecase.NewFeedCrawler(fetcher, articles, weixin, enricher,
		logger.With("component", "feed"))
	discoverer := usecase.NewDiscoverer(fetcher, accounts, parser.NewSogouExtractor(),
		feed, cfg.Crawler.SearchRoot, logger.With("component", "discoverer"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID)
	}

	dumper := usecase.NewDumper(discoverer, accounts, notifier,
		logger.With("component", "dumper"))

	return &Application{cfg: cfg, db: db, dumper: dumper, logger: logger}, nil
}

// Run executes one pass per configured keyword set, or keeps running on
// the cron schedule when one is configured.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Scheduler.CronExpression == "" {
		return a.dumpAll(ctx)
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	recurring := usecase.NewScheduler(driver, a.dumper, a.cfg.Crawler.Keywords,
		a.logger.With("component", "scheduler"))
	if err := recurring.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return recurring.Stop(context.Background())
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}

func (a *Application) dumpAll(ctx context.Context) error {
	for _, keywords := range a.cfg.Crawler.Keywords {
		if err := a.dumper.DumpAccounts(ctx, keywords); err != nil {
			return err
		}
	}
	return nil
}
