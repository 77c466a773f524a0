// Package config holds the service configuration and its YAML loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/khojlab/tathya/checker"
	"github.com/khojlab/tathya/embedding"
	"github.com/khojlab/tathya/evidence"
	"github.com/khojlab/tathya/fetch"
	"github.com/khojlab/tathya/llmjudge"
	"github.com/khojlab/tathya/pagecache"
	"github.com/khojlab/tathya/shield"
)

// Config holds all service configuration. Sub-configs keep their own
// defaults; zero values are filled in by each collaborator.
type Config struct {
	Server    ServerConfig           `yaml:"server"`
	Logging   LoggingConfig          `yaml:"logging"`
	DBPath    string                 `yaml:"db_path"`
	Allowlist []string               `yaml:"allowlist"`
	Checker   checker.Config         `yaml:"checker"`
	Evidence  evidence.Config        `yaml:"evidence"`
	Fetch     fetch.Config           `yaml:"fetch"`
	Cache     pagecache.Config       `yaml:"cache"`
	Embedding embedding.Config       `yaml:"embedding"`
	Judge     llmjudge.Config        `yaml:"judge"`
	RateLimit shield.RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig controls the HTTP listener and the MCP endpoint.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	EnableMCP bool   `yaml:"enable_mcp"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

func (c *Config) defaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.DBPath == "" {
		c.DBPath = "data/tathya.db"
	}
	if len(c.Allowlist) == 0 {
		c.Allowlist = DefaultAllowlist()
	}
}

// Default returns a Config with defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// LoadConfigFile reads a YAML config file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// DefaultAllowlist is the built-in trusted source list: Nepali outlets,
// international news and institutional domains.
func DefaultAllowlist() []string {
	return []string{
		// Institutional
		"who.int", "un.org", "worldbank.org", "unesco.org", "unicef.org",
		"imf.org", "nasa.gov", "cdc.gov",
		// Nepal government and banking
		"gov.np", "nrb.org.np", "mof.gov.np", "mohp.gov.np",
		// Nepali media
		"kathmandupost.com", "ekantipur.com", "onlinekhabar.com",
		"english.onlinekhabar.com", "setopati.com", "ratopati.com",
		"annapurnapost.com", "nepalnews.com", "myrepublica.nagariknetwork.com",
		"nagariknews.com", "ujyaaloonline.com",
		// International media
		"bbc.com", "reuters.com", "apnews.com", "ap.org", "aljazeera.com",
		"dw.com", "cnn.com", "theguardian.com", "nytimes.com",
		"washingtonpost.com", "economist.com", "hindustantimes.com",
		"thehindu.com",
		// Research
		"researchgate.net", "jstor.org",
		// Fact checkers
		"factcheck.org", "snopes.com", "politifact.com", "southasiacheck.org",
	}
}
