// Package search finds candidate evidence pages for a claim. It runs an
// original-claim pass plus language-specific fact-check query variants.
package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Result kinds. Fact-check hits carry extra weight downstream.
const (
	KindOriginal  = "original"
	KindFactCheck = "factcheck"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Kind    string `json:"kind"`
}

// Searcher runs a single query and returns up to n results.
type Searcher interface {
	Search(ctx context.Context, q string, n int, lang string) ([]Result, error)
	Name() string
}

// factCheckQueries maps language codes to query templates. %s is the claim.
var factCheckQueries = map[string][]string{
	"en": {
		"fact check %s",
		"%s debunked",
		"%s true or false",
		"%s verified",
		"is %s real",
	},
	"ne": {
		"%s तथ्य परीक्षण",
		"%s सत्य कि झूटो",
		"%s भ्रामक",
		"%s पुष्टि",
	},
	"hi": {
		"%s तथ्य जांच",
		"%s सच या झूठ",
		"%s भ्रामक",
		"%s सत्यापन",
	},
}

// FactCheckQueries expands a claim into fact-check query variants for
// the given language. Unknown languages use the English templates.
func FactCheckQueries(claim, lang string) []string {
	templates, ok := factCheckQueries[lang]
	if !ok {
		templates = factCheckQueries["en"]
	}
	queries := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		queries = append(queries, fmt.Sprintf(tmpl, claim))
	}
	return queries
}

// Config holds shared search settings.
type Config struct {
	GoogleAPIKey      string        `yaml:"google_api_key"`
	GoogleCX          string        `yaml:"google_cx"`
	Timeout           time.Duration `yaml:"timeout"`
	QueriesPerSecond  float64       `yaml:"queries_per_second"`
	ResultsPerQuery   int           `yaml:"results_per_query"`
	FactCheckPerQuery int           `yaml:"factcheck_per_query"`
	DateRestrict      string        `yaml:"date_restrict"`
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.QueriesPerSecond <= 0 {
		c.QueriesPerSecond = 2
	}
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = 10
	}
	if c.FactCheckPerQuery <= 0 {
		c.FactCheckPerQuery = 3
	}
	if c.DateRestrict == "" {
		c.DateRestrict = "y2"
	}
}

func newLimiter(qps float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(qps), 1)
}

// Gather runs the original pass plus the fact-check variants against a
// Searcher and merges the results. Per-query failures are skipped; an
// error is returned only when the original pass itself fails.
func Gather(ctx context.Context, s Searcher, claim string, cfg Config, lang string) ([]Result, error) {
	cfg.defaults()

	results, err := s.Search(ctx, claim, cfg.ResultsPerQuery, lang)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.Name(), err)
	}

	for _, q := range FactCheckQueries(claim, lang) {
		hits, err := s.Search(ctx, q, cfg.FactCheckPerQuery, lang)
		if err != nil {
			continue
		}
		for i := range hits {
			hits[i].Kind = KindFactCheck
		}
		results = append(results, hits...)
	}
	return results, nil
}
