// Package verdict turns scored evidence into a credibility-weighted
// verdict. The engine is pure: same evidence in, same verdict out.
package verdict

import (
	"fmt"

	"github.com/khojlab/tathya/stance"
)

// Verdict labels.
const (
	LikelyFalse      = "likely_false"
	LikelyTrue       = "likely_true"
	MixedEvidence    = "mixed_evidence"
	InsufficientData = "insufficient_data"
)

// Evidence quality labels.
const (
	QualityHigh = "high"
	QualityMed  = "medium"
	QualityLow  = "low"
	QualityNone = "none"
)

// SentinelTitle marks the placeholder item used when no sources survive
// filtering.
const SentinelTitle = "No sources found"

// EvidenceItem is one scored piece of evidence. All three scores
// (Similarity, Stance, Credibility) are always set together.
type EvidenceItem struct {
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	Domain           string  `json:"domain"`
	Snippet          string  `json:"snippet"`
	Kind             string  `json:"kind"`
	Similarity       float64 `json:"similarity"`
	Stance           string  `json:"stance"`
	StanceConfidence float64 `json:"stance_confidence"`
	Credibility      float64 `json:"credibility"`
	CredibilityTier  string  `json:"credibility_tier"`
}

// Sentinel returns the placeholder item for an empty evidence set.
func Sentinel() EvidenceItem {
	return EvidenceItem{
		Title:            SentinelTitle,
		Stance:           string(stance.Neutral),
		StanceConfidence: 0.5,
	}
}

// IsSentinel reports whether the item is the no-sources placeholder.
func (e EvidenceItem) IsSentinel() bool {
	return e.Title == SentinelTitle && e.URL == ""
}

// Stats summarizes the evidence set behind a verdict.
type Stats struct {
	Refuting               int `json:"refuting"`
	Supporting             int `json:"supporting"`
	Neutral                int `json:"neutral"`
	HighCredibilitySources int `json:"high_credibility_sources"`
	FactCheckSources       int `json:"fact_check_sources"`
	TotalArticles          int `json:"total_articles"`
}

// Verdict is the engine output. Confidence and CredibilityScore are
// percentages in [0, 95].
type Verdict struct {
	Label            string `json:"verdict"`
	Confidence       int    `json:"confidence"`
	CredibilityScore int    `json:"credibility_score"`
	EvidenceQuality  string `json:"evidence_quality"`
	Stats            Stats  `json:"stats"`
	Reason           string `json:"reason"`
}

const (
	factCheckBoost   = 2.0
	highSimBoost     = 1.3
	highSimThreshold = 0.6
	neutralDamping   = 0.5
	refuteAsymmetry  = 1.1
	falseThreshold   = 1.1
	trueThreshold    = 1.3
	maxConfidence    = 95
)

// Engine computes verdicts from scored evidence.
type Engine struct{}

// NewEngine returns a verdict engine.
func NewEngine() *Engine { return &Engine{} }

// Decide weighs the evidence set and returns a verdict. An empty set or
// one containing only the sentinel yields insufficient_data.
func (e *Engine) Decide(items []EvidenceItem) Verdict {
	real := make([]EvidenceItem, 0, len(items))
	for _, it := range items {
		if !it.IsSentinel() {
			real = append(real, it)
		}
	}
	if len(real) == 0 {
		return Verdict{
			Label:           InsufficientData,
			EvidenceQuality: QualityNone,
			Reason:          "no usable sources were found for this claim",
		}
	}

	var (
		weightedRefuting   float64
		weightedSupporting float64
		weightedNeutral    float64
		totalCredibility   float64
		highSimCount       int
		factCheckCount     int
		stats              Stats
	)

	for _, it := range real {
		base := it.Credibility * (it.Similarity + 0.1)
		if it.Kind == "factcheck" {
			factCheckCount++
			base *= factCheckBoost
		}
		if it.Similarity > highSimThreshold {
			highSimCount++
			base *= highSimBoost
		}

		stanceWeight := base * it.StanceConfidence
		switch it.Stance {
		case string(stance.Refutes):
			// Refuting evidence is weighted up to counteract the
			// web's repetition of viral claims.
			weightedRefuting += stanceWeight * refuteAsymmetry
			stats.Refuting++
		case string(stance.Supports):
			weightedSupporting += stanceWeight
			stats.Supporting++
		default:
			weightedNeutral += base * neutralDamping
			stats.Neutral++
		}

		totalCredibility += it.Credibility
		if it.Credibility > 0.8 {
			stats.HighCredibilitySources++
		}
	}
	stats.FactCheckSources = factCheckCount
	stats.TotalArticles = len(real)

	totalWeighted := weightedRefuting + weightedSupporting + weightedNeutral

	var (
		label      string
		confidence float64
		credScore  float64
		reason     string
	)
	switch {
	case totalWeighted == 0:
		label = InsufficientData
		reason = "evidence carried no usable weight"
	case weightedRefuting > weightedSupporting*falseThreshold:
		label = LikelyFalse
		confidence = min(maxConfidence, weightedRefuting/totalWeighted*100)
		if factCheckCount > 0 {
			confidence = min(maxConfidence, confidence*1.2)
		}
		credScore = max(5, 100-confidence)
		reason = fmt.Sprintf("refuting evidence from %d of %d sources outweighs support", stats.Refuting, stats.TotalArticles)
	case weightedSupporting > weightedRefuting*trueThreshold:
		label = LikelyTrue
		confidence = min(maxConfidence, weightedSupporting/totalWeighted*100)
		credScore = min(maxConfidence, confidence)
		reason = fmt.Sprintf("supporting evidence from %d of %d sources outweighs refutation", stats.Supporting, stats.TotalArticles)
	default:
		label = MixedEvidence
		confidence = 50
		credScore = 50
		reason = "supporting and refuting evidence are too close to call"
	}

	avgCredibility := totalCredibility / float64(len(real))
	quality := QualityLow
	switch {
	case avgCredibility > 0.8 && (highSimCount >= 2 || factCheckCount >= 1):
		quality = QualityHigh
		confidence = min(maxConfidence, confidence*1.1)
	case avgCredibility > 0.6 && highSimCount >= 1:
		quality = QualityMed
	default:
		confidence *= 0.8
	}

	return Verdict{
		Label:            label,
		Confidence:       int(confidence),
		CredibilityScore: int(credScore),
		EvidenceQuality:  quality,
		Stats:            stats,
		Reason:           reason,
	}
}
