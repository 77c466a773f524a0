package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// ErrNotConfigured is returned when the Google client has no credentials.
var ErrNotConfigured = errors.New("search: google api key or cx not configured")

// Google queries the Custom Search JSON API.
type Google struct {
	config   Config
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// GoogleOption configures the client.
type GoogleOption func(*Google)

// WithGoogleEndpoint overrides the API endpoint. Used in tests.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(g *Google) { g.endpoint = endpoint }
}

// NewGoogle builds a Custom Search client.
func NewGoogle(config Config, logger *slog.Logger, opts ...GoogleOption) *Google {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	g := &Google{
		config:   config,
		endpoint: googleEndpoint,
		client:   &http.Client{Timeout: config.Timeout},
		limiter:  newLimiter(config.QueriesPerSecond),
		logger:   logger.With("component", "search.google"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Google) Name() string { return "google" }

// Configured reports whether API credentials are present.
func (g *Google) Configured() bool {
	return g.config.GoogleAPIKey != "" && g.config.GoogleCX != ""
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search runs one Custom Search query. Google caps num at 10 per
// request, so n is clamped.
func (g *Google) Search(ctx context.Context, q string, n int, lang string) ([]Result, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", g.config.GoogleAPIKey)
	params.Set("cx", g.config.GoogleCX)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(min(n, 10)))
	params.Set("dateRestrict", g.config.DateRestrict)
	params.Set("safe", "active")
	switch lang {
	case "ne":
		params.Set("lr", "lang_ne")
		params.Set("hl", "ne")
	case "hi":
		params.Set("lr", "lang_hi")
		params.Set("hl", "hi")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google search: status %d: %s", resp.StatusCode, body)
	}

	var parsed googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Kind:    KindOriginal,
		})
	}
	g.logger.Debug("search complete", "query", q, "results", len(results))
	return results, nil
}
