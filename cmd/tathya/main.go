// Command tathya runs the claim verification service: HTTP API plus an
// optional MCP endpoint.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/khojlab/tathya/allowlist"
	"github.com/khojlab/tathya/checker"
	"github.com/khojlab/tathya/config"
	"github.com/khojlab/tathya/dbopen"
	"github.com/khojlab/tathya/embedding"
	"github.com/khojlab/tathya/evidence"
	"github.com/khojlab/tathya/fetch"
	"github.com/khojlab/tathya/history"
	"github.com/khojlab/tathya/httpapi"
	"github.com/khojlab/tathya/llmjudge"
	"github.com/khojlab/tathya/observability"
	"github.com/khojlab/tathya/pagecache"
	"github.com/khojlab/tathya/rank"
	"github.com/khojlab/tathya/search"
	"github.com/khojlab/tathya/shield"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigFile(*configPath)
		if err != nil {
			slog.Error("load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}
	applyEnv(cfg)

	// Logging.
	var lvl slog.Level
	switch cfg.Logging.Level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Database.
	db, err := dbopen.Open(cfg.DBPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(history.Schema),
		dbopen.WithSchema(observability.Schema))
	if err != nil {
		slog.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Page cache.
	cache, err := pagecache.New(cfg.Cache, logger)
	if err != nil {
		slog.Error("page cache", "error", err)
		os.Exit(1)
	}

	// Collaborators.
	allow := allowlist.New(cfg.Allowlist)
	cfg.Embedding.Logger = logger
	ranker := rank.New(embedding.New(cfg.Embedding), logger)
	fetcher := fetch.New(cfg.Fetch)
	aggregator := evidence.New(cfg.Evidence, allow, ranker, fetcher, cache, logger)
	google := search.NewGoogle(cfg.Checker.Search, logger)
	duckduckgo := search.NewDuckDuckGo(cfg.Checker.Search, logger)
	judge := llmjudge.New(cfg.Judge, logger)
	store := history.New(db)
	events := observability.NewEventLogger(db)

	service := checker.New(cfg.Checker, google, duckduckgo, aggregator, judge, store, events, logger)

	googleOK, _ := service.SearchConfigured()
	slog.Info("verification service ready",
		"google_search", googleOK,
		"llm_judge", judge.Configured(),
		"allowlist_domains", allow.Len(),
		"engine", cfg.Checker.Engine)

	// Router.
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack(cfg.RateLimit) {
		r.Use(mw)
	}
	httpapi.New(service, version).Routes(r)

	// Optional MCP endpoint on the same listener.
	if cfg.Server.EnableMCP {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "tathya",
			Version: version,
		}, nil)
		service.RegisterMCP(mcpSrv)
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return mcpSrv
		}, nil))
		slog.Info("MCP endpoint enabled", "path", "/mcp")
	}

	// HTTP server.
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// applyEnv overrides config values from the environment. Secrets come
// in through here so they stay out of config files.
func applyEnv(cfg *config.Config) {
	cfg.Server.Addr = env("TATHYA_ADDR", cfg.Server.Addr)
	cfg.DBPath = env("TATHYA_DB", cfg.DBPath)
	cfg.Logging.Level = env("LOG_LEVEL", cfg.Logging.Level)
	cfg.Checker.Search.GoogleAPIKey = env("GOOGLE_API_KEY", cfg.Checker.Search.GoogleAPIKey)
	cfg.Checker.Search.GoogleCX = env("GOOGLE_CX", cfg.Checker.Search.GoogleCX)
	cfg.Judge.APIKey = env("GROQ_API_KEY", cfg.Judge.APIKey)
	cfg.Embedding.Endpoint = env("EMBEDDING_ENDPOINT", cfg.Embedding.Endpoint)
	if env("MCP_ENABLE", "") == "1" {
		cfg.Server.EnableMCP = true
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
