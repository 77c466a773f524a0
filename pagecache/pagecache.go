// Package pagecache stores fetched page bodies on disk so repeated
// verifications of related claims do not refetch the same sources.
package pagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/khojlab/tathya/guard"
)

// Fetcher produces the page body for a cache miss.
type Fetcher func(ctx context.Context) ([]byte, error)

// Config holds cache settings.
type Config struct {
	Dir    string        `yaml:"dir"`
	MaxAge time.Duration `yaml:"max_age"` // 0 keeps entries forever
}

func (c *Config) defaults() {
	if c.Dir == "" {
		c.Dir = "data/pagecache"
	}
}

// Cache is a disk-backed page cache with in-flight request dedup.
type Cache struct {
	config Config
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[string]*call
}

// call tracks one in-flight fetch shared by concurrent callers.
type call struct {
	done chan struct{}
	body []byte
	err  error
}

// New creates the cache directory and returns a Cache.
func New(config Config, logger *slog.Logger) (*Cache, error) {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{
		config:   config,
		logger:   logger.With("component", "pagecache"),
		inFlight: make(map[string]*call),
	}, nil
}

// Key derives a filesystem-safe cache key from a URL. The readable
// prefix keeps cache directories inspectable; the hash suffix keeps
// distinct URLs from colliding after character replacement.
func Key(rawURL string) string {
	name := strings.ReplaceAll(rawURL, "://", "_")
	name = strings.ReplaceAll(name, "/", "_")
	if len(name) > 100 {
		name = name[:100]
	}
	sum := sha256.Sum256([]byte(rawURL))
	return name + "_" + hex.EncodeToString(sum[:])[:12]
}

// GetOrFetch returns the cached body for url, or runs fetcher and
// caches the result. Concurrent callers for the same URL share a
// single fetch. Failed fetches are not cached.
func (c *Cache) GetOrFetch(ctx context.Context, url string, fetcher Fetcher) ([]byte, error) {
	key := Key(url)

	if body, ok := c.read(key); ok {
		c.logger.Debug("cache hit", "url", url)
		return body, nil
	}

	c.mu.Lock()
	if existing, ok := c.inFlight[key]; ok {
		c.mu.Unlock()
		select {
		case <-existing.done:
			return existing.body, existing.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inFlight[key] = cl
	c.mu.Unlock()

	cl.body, cl.err = fetcher(ctx)
	close(cl.done)

	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()

	if cl.err != nil {
		return nil, cl.err
	}
	if len(cl.body) > 0 {
		c.write(key, cl.body)
	}
	return cl.body, nil
}

// read returns the cached body if present and fresh.
func (c *Cache) read(key string) ([]byte, bool) {
	path, err := guard.SafePath(c.config.Dir, key)
	if err != nil {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.config.MaxAge > 0 && time.Since(info.ModTime()) > c.config.MaxAge {
		return nil, false
	}
	body, err := os.ReadFile(path)
	if err != nil || len(body) == 0 {
		return nil, false
	}
	return body, true
}

func (c *Cache) write(key string, body []byte) {
	path, err := guard.SafePath(c.config.Dir, key)
	if err != nil {
		c.logger.Warn("cache key rejected", "key", key, "error", err)
		return
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		c.logger.Warn("cache write failed", "path", path, "error", err)
	}
}

// Purge removes entries older than MaxAge. A zero MaxAge is a no-op.
func (c *Cache) Purge() (removed int, err error) {
	if c.config.MaxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(c.config.Dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.config.MaxAge {
			if err := os.Remove(filepath.Join(c.config.Dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
