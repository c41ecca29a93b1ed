package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.Path != "wxcrawler.db" {
		t.Fatalf("unexpected database path: %q", cfg.Database.Path)
	}
	if cfg.Crawler.SearchRoot != "http://weixin.sogou.com/weixin" {
		t.Fatalf("unexpected search root: %q", cfg.Crawler.SearchRoot)
	}
	if cfg.Scheduler.Location() == nil {
		t.Fatal("expected a resolved timezone")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
database:
  path: /tmp/custom.db
crawler:
  keywords: ["alpha", "beta"]
logging:
  level: debug
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databasePathEnv, "/tmp/env-wins.db")

	cfg := Load()

	if cfg.Database.Path != "/tmp/env-wins.db" {
		t.Fatalf("env override lost: %q", cfg.Database.Path)
	}
	if len(cfg.Crawler.Keywords) != 2 || cfg.Crawler.Keywords[0] != "alpha" {
		t.Fatalf("file keywords lost: %v", cfg.Crawler.Keywords)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("file logging level lost: %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Crawler.PublisherRoot != "https://mp.weixin.qq.com" {
		t.Fatalf("default publisher root lost: %q", cfg.Crawler.PublisherRoot)
	}
}
