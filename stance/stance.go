// Package stance classifies whether a piece of article text supports,
// refutes, or is neutral toward a claim. It is a lexical scoring model
// over per-language keyword sets, deliberately simple and explainable,
// not a trained classifier.
package stance

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Stance is the relation of evidence text to a claim.
type Stance string

const (
	Supports Stance = "supports"
	Refutes  Stance = "refutes"
	Neutral  Stance = "neutral"
)

const (
	strongWeight   = 3
	verdictWeight  = 3
	negationBoost  = 2
	assertionBoost = 3
)

// Asymmetric decision thresholds: refutation needs more relative
// evidence than support, since a wrong "false" is costlier than a
// wrong "true" in a fact-checking context.
const (
	refuteThreshold  = 1.5
	supportThreshold = 1.3
)

var verdictPatterns = []*regexp.Regexp{
	regexp.MustCompile(`rating:?\s*(false|true|mostly false|mostly true|pants on fire)`),
	regexp.MustCompile(`verdict:?\s*(false|true|misleading|accurate)`),
	regexp.MustCompile(`(?:this is|this claim is)\s*(false|true|misleading|accurate)`),
}

var verdictRefuting = map[string]bool{
	"false": true, "mostly false": true, "pants on fire": true, "misleading": true,
}
var verdictSupporting = map[string]bool{
	"true": true, "mostly true": true, "accurate": true,
}

// Detector scores claim/text pairs. One generic algorithm serves every
// language; only the lexicon varies.
type Detector struct{}

// New returns a Detector.
func New() *Detector { return &Detector{} }

// Detect returns the stance of the combined title + article text toward
// the claim, with a confidence in [0.5, 0.95]. Matching is
// case-insensitive over NFC-normalized text. Unknown languages use the
// English lexicon.
func (d *Detector) Detect(claim, articleText, title, lang string) (Stance, float64) {
	combined := normalize(title + " " + articleText)
	claimLower := normalize(claim)
	lex := LexiconFor(lang)

	refute := sumPresence(combined, lex.StrongRefute, strongWeight) +
		sumPresence(combined, lex.ModerateRefute, 1)
	support := sumPresence(combined, lex.StrongSupport, strongWeight) +
		sumPresence(combined, lex.ModerateSupport, 1)

	// Explicit verdict announcements from structured fact-check pages
	// are strong signals.
	for _, pat := range verdictPatterns {
		for _, m := range pat.FindAllStringSubmatch(combined, -1) {
			v := m[len(m)-1]
			switch {
			case verdictRefuting[v]:
				refute += verdictWeight
			case verdictSupporting[v]:
				support += verdictWeight
			}
		}
	}

	refute += negationScore(claimLower, combined, lex.DevanagariNegation)

	switch {
	case refute == 0 && support == 0:
		return Neutral, 0.5
	case float64(refute) > float64(support)*refuteThreshold:
		return Refutes, confidence(refute, refute+support)
	case float64(support) > float64(refute)*supportThreshold:
		return Supports, confidence(support, refute+support)
	default:
		return Neutral, 0.6
	}
}

// confidence maps the winning share of the total score to [0.6, 0.95].
func confidence(win, total int) float64 {
	margin := float64(win) / float64(total)
	c := 0.6 + margin*0.3
	if c > 0.95 {
		c = 0.95
	}
	return c
}

// negationScore checks claim content words for direct contradiction
// patterns in the text: "not <word>", "no <word>" and
// "<word> is false|incorrect|wrong", plus Devanagari negation
// ("<word> होइन", "<word> छैन") when the lexicon enables it.
func negationScore(claim, combined string, devanagari bool) int {
	var score int
	for _, w := range strings.Fields(claim) {
		if !contentWord(w) {
			continue
		}
		if strings.Contains(combined, "not "+w) || strings.Contains(combined, "no "+w) {
			score += negationBoost
		}
		if strings.Contains(combined, w+" is false") ||
			strings.Contains(combined, w+" are false") ||
			strings.Contains(combined, w+" is incorrect") ||
			strings.Contains(combined, w+" is wrong") {
			score += assertionBoost
		}
		if devanagari {
			if strings.Contains(combined, w+" होइन") || strings.Contains(combined, w+" छैन") {
				score += negationBoost
			}
		}
	}
	return score
}

// contentWord filters claim tokens worth checking for negation.
// Devanagari words are denser per rune, so the cutoff is lower.
func contentWord(w string) bool {
	runes := []rune(w)
	for _, r := range runes {
		if r >= 0x0900 && r <= 0x097F {
			return len(runes) > 2
		}
	}
	return len(runes) > 3
}

func sumPresence(text string, terms []string, weight int) int {
	var score int
	for _, t := range terms {
		if strings.Contains(text, t) {
			score += weight
		}
	}
	return score
}

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
