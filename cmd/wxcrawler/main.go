package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"WxCrawler/internal/app"
	"WxCrawler/internal/config"
	"WxCrawler/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	// Keyword arguments take priority over configuration.
	if args := os.Args[1:]; len(args) > 0 {
		cfg.Crawler.Keywords = args
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
