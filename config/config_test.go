package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WHAT: Tests config loading and defaults.
// WHY: A misread config silently changes filtering and verdict behavior.

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.DBPath != "data/tathya.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if len(cfg.Allowlist) == 0 {
		t.Fatal("default allowlist empty")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9090"
  enable_mcp: true
logging:
  level: debug
db_path: /tmp/test.db
allowlist:
  - example.com
checker:
  engine: llm
  search:
    google_api_key: key
    google_cx: cx
evidence:
  min_content_len: 200
  priority_sites:
    - who.int
fetch:
  timeout: 5s
cache:
  max_age: 24h
judge:
  api_key: sk-test
  base_url: https://api.groq.com/openai/v1
rate_limit:
  requests_per_second: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Server.Addr != ":9090" || !cfg.Server.EnableMCP {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults not merged: %+v", cfg.Logging)
	}
	if len(cfg.Allowlist) != 1 || cfg.Allowlist[0] != "example.com" {
		t.Errorf("allowlist = %v", cfg.Allowlist)
	}
	if cfg.Checker.Engine != "llm" || cfg.Checker.Search.GoogleAPIKey != "key" {
		t.Errorf("checker = %+v", cfg.Checker)
	}
	if cfg.Evidence.MinContentLen != 200 || len(cfg.Evidence.PrioritySites) != 1 {
		t.Errorf("evidence = %+v", cfg.Evidence)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("fetch timeout = %v", cfg.Fetch.Timeout)
	}
	if cfg.Cache.MaxAge != 24*time.Hour {
		t.Errorf("cache max age = %v", cfg.Cache.MaxAge)
	}
	if cfg.Judge.APIKey != "sk-test" {
		t.Errorf("judge = %+v", cfg.Judge)
	}
	if cfg.RateLimit.RequestsPerSecond != 10 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/config.yaml"); err == nil {
		t.Error("missing file must error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("malformed yaml must error")
	}
}
