// Package evidence turns raw search results into scored evidence items.
// It filters untrusted sources, fetches and extracts page content, and
// attaches similarity, stance and credibility scores.
package evidence

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"sync"

	"github.com/khojlab/tathya/allowlist"
	"github.com/khojlab/tathya/credibility"
	"github.com/khojlab/tathya/extract"
	"github.com/khojlab/tathya/fetch"
	"github.com/khojlab/tathya/pagecache"
	"github.com/khojlab/tathya/rank"
	"github.com/khojlab/tathya/search"
	"github.com/khojlab/tathya/stance"
	"github.com/khojlab/tathya/verdict"
)

// Config holds aggregation settings.
type Config struct {
	MinContentLen int      `yaml:"min_content_len"`
	Workers       int      `yaml:"workers"`
	SnippetLen    int      `yaml:"snippet_len"`
	PrioritySites []string `yaml:"priority_sites"`
}

func (c *Config) defaults() {
	if c.MinContentLen <= 0 {
		c.MinContentLen = 150
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.SnippetLen <= 0 {
		c.SnippetLen = 300
	}
}

// Aggregator fetches and scores evidence for a claim.
type Aggregator struct {
	config   Config
	allow    *allowlist.AllowList
	priority *allowlist.AllowList
	scorer   *credibility.Scorer
	detector *stance.Detector
	ranker   *rank.Ranker
	fetcher  *fetch.Fetcher
	cache    *pagecache.Cache
	logger   *slog.Logger
}

// New builds an Aggregator.
func New(config Config, allow *allowlist.AllowList, ranker *rank.Ranker, fetcher *fetch.Fetcher, cache *pagecache.Cache, logger *slog.Logger) *Aggregator {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		config:   config,
		allow:    allow,
		priority: allowlist.New(config.PrioritySites),
		scorer:   credibility.New(),
		detector: stance.New(),
		ranker:   ranker,
		fetcher:  fetcher,
		cache:    cache,
		logger:   logger.With("component", "evidence"),
	}
}

// candidate is a search result that passed filtering, before fetching.
type candidate struct {
	result search.Result
	domain string
}

// fetched is a candidate with extracted page content.
type fetched struct {
	candidate
	title string
	text  string
}

// Aggregate runs the full evidence pipeline for a claim. It never
// returns an empty slice: when no sources survive, the single sentinel
// item is returned so the verdict engine can map it to
// insufficient_data. Per-source failures are logged and skipped.
func (a *Aggregator) Aggregate(ctx context.Context, claim, lang string, results []search.Result, maxItems int) []verdict.EvidenceItem {
	if maxItems <= 0 {
		maxItems = 10
	}

	candidates := a.filter(results)
	pages := a.fetchAll(ctx, candidates, maxItems)
	pages = a.selectByDomain(pages, maxItems)

	if len(pages) == 0 {
		a.logger.Info("no usable sources", "claim_len", len(claim), "raw_results", len(results))
		return []verdict.EvidenceItem{verdict.Sentinel()}
	}
	return a.score(ctx, claim, lang, pages)
}

// filter drops social media and non-allow-listed sources, dedups URLs,
// and orders priority domains first.
func (a *Aggregator) filter(results []search.Result) []candidate {
	seen := make(map[string]bool)
	var prioritized, rest []candidate

	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true

		u, err := url.Parse(r.URL)
		if err != nil || u.Hostname() == "" {
			continue
		}
		domain := credibility.Normalize(u.Hostname())
		if a.scorer.IsSocialMedia(domain) {
			a.logger.Debug("skipping social media source", "url", r.URL)
			continue
		}
		if !a.allow.Allowed(domain) {
			continue
		}

		c := candidate{result: r, domain: domain}
		if a.priority.Len() > 0 && a.priority.Allowed(domain) {
			prioritized = append(prioritized, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(prioritized, rest...)
}

// fetchAll retrieves page content through the cache in waves of
// Workers concurrent fetches. Dispatching stops once maxItems usable
// pages are in hand, so trailing candidates are never fetched. Failed
// or thin pages are dropped.
func (a *Aggregator) fetchAll(ctx context.Context, candidates []candidate, maxItems int) []fetched {
	if len(candidates) == 0 {
		return nil
	}

	out := make([]*fetched, len(candidates))
	var pages []fetched

	for start := 0; start < len(candidates) && len(pages) < maxItems; start += a.config.Workers {
		end := min(start+a.config.Workers, len(candidates))
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int, c candidate) {
				defer wg.Done()

				body, err := a.cache.GetOrFetch(ctx, c.result.URL, func(ctx context.Context) ([]byte, error) {
					res, err := a.fetcher.Fetch(ctx, c.result.URL)
					if err != nil {
						return nil, err
					}
					return res.Body, nil
				})
				if err != nil {
					a.logger.Debug("fetch failed", "url", c.result.URL, "error", err)
					return
				}

				title, text := extract.Text(body)
				if len(text) < a.config.MinContentLen {
					a.logger.Debug("content too short", "url", c.result.URL, "chars", len(text))
					return
				}
				if title == "" {
					title = c.result.Title
				}
				out[i] = &fetched{candidate: c, title: title, text: text}
			}(i, candidates[i])
		}
		wg.Wait()

		// Collect in input order for deterministic domain selection.
		for i := start; i < end; i++ {
			if out[i] != nil {
				pages = append(pages, *out[i])
			}
		}
	}
	return pages
}

// selectByDomain keeps at most one page per domain while slots remain,
// then fills leftover slots with already-seen domains.
func (a *Aggregator) selectByDomain(pages []fetched, maxItems int) []fetched {
	if len(pages) <= maxItems {
		return pages
	}

	seen := make(map[string]bool)
	selected := make([]fetched, 0, maxItems)
	var overflow []fetched

	for _, p := range pages {
		if len(selected) == maxItems {
			break
		}
		if seen[p.domain] {
			overflow = append(overflow, p)
			continue
		}
		seen[p.domain] = true
		selected = append(selected, p)
	}
	for _, p := range overflow {
		if len(selected) == maxItems {
			break
		}
		selected = append(selected, p)
	}
	return selected
}

// score attaches similarity, stance and credibility to every page.
// The three scores are always set together.
func (a *Aggregator) score(ctx context.Context, claim, lang string, pages []fetched) []verdict.EvidenceItem {
	cands := make([]rank.Candidate, len(pages))
	for i, p := range pages {
		cands[i] = rank.Candidate{
			Title: p.title,
			URL:   p.result.URL,
			Text:  p.text,
			Kind:  p.result.Kind,
		}
	}
	ranked := a.ranker.Rank(ctx, claim, cands, len(cands))

	// Rank sorts by similarity; realign with pages by URL.
	byURL := make(map[string]float64, len(ranked))
	for _, r := range ranked {
		byURL[r.URL] = r.Score
	}

	items := make([]verdict.EvidenceItem, 0, len(pages))
	for _, p := range pages {
		st, conf := a.detector.Detect(claim, p.text, p.title, lang)
		score := a.scorer.Score(p.domain)
		items = append(items, verdict.EvidenceItem{
			Title:            p.title,
			URL:              p.result.URL,
			Domain:           p.domain,
			Snippet:          extract.Snippet(p.text, a.config.SnippetLen),
			Kind:             p.result.Kind,
			Similarity:       byURL[p.result.URL],
			Stance:           string(st),
			StanceConfidence: conf,
			Credibility:      score,
			CredibilityTier:  credibility.Tier(score),
		})
	}
	// Most relevant evidence first in API and history responses.
	sort.SliceStable(items, func(i, j int) bool { return items[i].Similarity > items[j].Similarity })
	return items
}
