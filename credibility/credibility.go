// Package credibility assigns source trust scores in [0, 0.98] from the
// publishing domain alone. Known domains hit curated tier tables; the
// rest go through pattern rules (TLD class, regional bonus, news-token
// floor, low-trust penalty).
package credibility

import (
	"net/url"
	"strings"
)

// defaultScore is the base for unknown domains.
const defaultScore = 0.5

// maxScore caps every result; no source is beyond question.
const maxScore = 0.98

// Scorer computes deterministic credibility scores. The zero value is
// not usable; call New.
type Scorer struct{}

// New returns a Scorer.
func New() *Scorer { return &Scorer{} }

// Score returns the credibility of a domain. Deterministic and
// side-effect free: equal inputs always produce equal outputs.
func (s *Scorer) Score(domain string) float64 {
	d := Normalize(domain)
	if d == "" {
		return defaultScore
	}

	for _, table := range []map[string]float64{tier1, tier2, tier3} {
		if v, ok := table[d]; ok {
			return v
		}
	}

	score := defaultScore
	switch {
	case strings.HasSuffix(d, ".gov") || strings.HasSuffix(d, ".gov.np"):
		score = 0.88
	case strings.HasSuffix(d, ".edu") || strings.HasSuffix(d, ".edu.np"):
		score = 0.85
	case strings.HasSuffix(d, ".org"):
		switch {
		case containsAny(d, orgTrusted):
			score = 0.95
		case containsAny(d, orgModerate):
			score = 0.8
		default:
			score = 0.7
		}
	}

	if strings.HasSuffix(d, ".np") || containsAny(d, nepalTokens) {
		score = min(score+0.05, 0.95)
	}

	if containsAny(d, newsTokens) {
		score = max(score, 0.65)
	}

	if containsAny(d, lowTrustHosts) {
		score = max(score-0.2, 0.3)
	}

	return min(score, maxScore)
}

// ScoreURL extracts the host from rawURL and scores it. Unparseable or
// hostless URLs get the default score.
func (s *Scorer) ScoreURL(rawURL string) float64 {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return defaultScore
	}
	return s.Score(u.Hostname())
}

// IsSocialMedia reports whether the domain belongs to a social platform.
// Social sources are filtered out before scoring, never scored low.
func (s *Scorer) IsSocialMedia(domain string) bool {
	d := strings.ToLower(domain)
	for _, sm := range socialMedia {
		if strings.Contains(d, sm) {
			return true
		}
	}
	return false
}

// Tier returns a human-readable tier label for a score.
func Tier(score float64) string {
	switch {
	case score >= 0.9:
		return "Tier 1: Premium Sources"
	case score >= 0.75:
		return "Tier 2: High Quality Sources"
	case score >= 0.6:
		return "Tier 3: Standard Sources"
	default:
		return "Tier 4: Questionable Sources"
	}
}

// Normalize lowercases a domain and strips a leading "www." so lookups
// and scoring are idempotent across both forms.
func Normalize(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(d, "www.")
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
