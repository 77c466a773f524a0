package verdict

import (
	"testing"
)

// WHAT: Tests the credibility-weighted verdict engine.
// WHY: The verdict is the product of the whole pipeline; its weighting
// and thresholds must stay exactly as calibrated.

func TestDecideLikelyFalse(t *testing.T) {
	items := []EvidenceItem{
		{Kind: "factcheck", Similarity: 0.8, Stance: "refutes", StanceConfidence: 0.9, Credibility: 0.92},
		{Kind: "original", Similarity: 0.7, Stance: "supports", StanceConfidence: 0.7, Credibility: 0.5},
		{Kind: "original", Similarity: 0.3, Stance: "neutral", StanceConfidence: 0.5, Credibility: 0.7},
	}

	v := NewEngine().Decide(items)
	if v.Label != LikelyFalse {
		t.Fatalf("label = %q, want likely_false", v.Label)
	}
	if v.Confidence != 95 {
		t.Errorf("confidence = %d, want 95 (fact-check boost capped)", v.Confidence)
	}
	if v.CredibilityScore != 5 {
		t.Errorf("credibility = %d, want 5", v.CredibilityScore)
	}
	if v.EvidenceQuality != QualityMed {
		t.Errorf("quality = %q, want medium", v.EvidenceQuality)
	}
	want := Stats{Refuting: 1, Supporting: 1, Neutral: 1, HighCredibilitySources: 1, FactCheckSources: 1, TotalArticles: 3}
	if v.Stats != want {
		t.Errorf("stats = %+v, want %+v", v.Stats, want)
	}
	if v.Reason == "" {
		t.Error("reason missing")
	}
}

func TestDecideLikelyTrue(t *testing.T) {
	items := []EvidenceItem{
		{Kind: "factcheck", Similarity: 0.9, Stance: "supports", StanceConfidence: 0.9, Credibility: 0.95},
		{Kind: "original", Similarity: 0.8, Stance: "supports", StanceConfidence: 0.8, Credibility: 0.9},
		{Kind: "original", Similarity: 0.2, Stance: "refutes", StanceConfidence: 0.6, Credibility: 0.8},
	}

	v := NewEngine().Decide(items)
	if v.Label != LikelyTrue {
		t.Fatalf("label = %q, want likely_true", v.Label)
	}
	if v.Confidence != 95 {
		t.Errorf("confidence = %d, want 95", v.Confidence)
	}
	if v.CredibilityScore != 95 {
		t.Errorf("credibility = %d, want 95 (mirrors confidence for true)", v.CredibilityScore)
	}
	if v.EvidenceQuality != QualityHigh {
		t.Errorf("quality = %q, want high", v.EvidenceQuality)
	}
	if v.Stats.HighCredibilitySources != 2 {
		t.Errorf("high credibility sources = %d, want 2", v.Stats.HighCredibilitySources)
	}
}

func TestDecideCredibilityOutweighsCount(t *testing.T) {
	// One tier-1 supporter against one tier-3 refuter. The stance counts
	// are even; the weighting has to carry the verdict.
	items := []EvidenceItem{
		{Kind: "original", Similarity: 0.7, Stance: "supports", StanceConfidence: 0.8, Credibility: 0.95},
		{Kind: "original", Similarity: 0.3, Stance: "refutes", StanceConfidence: 0.5, Credibility: 0.6},
	}

	v := NewEngine().Decide(items)
	if v.Label != LikelyTrue {
		t.Fatalf("label = %q, want likely_true (credibility must outweigh raw counts)", v.Label)
	}
	// supporting 0.95*0.8*1.3*0.8 = 0.7904 vs refuting 0.6*0.4*0.5*1.1 = 0.132.
	if v.Confidence != 85 {
		t.Errorf("confidence = %d, want 85", v.Confidence)
	}
	if v.CredibilityScore != 85 {
		t.Errorf("credibility = %d, want 85", v.CredibilityScore)
	}
	if v.EvidenceQuality != QualityMed {
		t.Errorf("quality = %q, want medium", v.EvidenceQuality)
	}
	want := Stats{Refuting: 1, Supporting: 1, HighCredibilitySources: 1, TotalArticles: 2}
	if v.Stats != want {
		t.Errorf("stats = %+v, want %+v", v.Stats, want)
	}
}

func TestDecideCredibilityMonotonic(t *testing.T) {
	engine := NewEngine()
	decide := func(supportCred, refuteCred float64) Verdict {
		return engine.Decide([]EvidenceItem{
			{Kind: "original", Similarity: 0.7, Stance: "supports", StanceConfidence: 0.8, Credibility: supportCred},
			{Kind: "original", Similarity: 0.3, Stance: "refutes", StanceConfidence: 0.5, Credibility: refuteCred},
		})
	}

	// Raising the supporter's credibility never weakens a true verdict.
	prev := -1
	for _, c := range []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95} {
		v := decide(c, 0.65)
		if v.Label != LikelyTrue {
			t.Fatalf("supporter cred %.2f: label = %q, want likely_true", c, v.Label)
		}
		if v.Confidence < prev {
			t.Errorf("supporter cred %.2f: confidence dropped from %d to %d", c, prev, v.Confidence)
		}
		prev = v.Confidence
	}

	// Raising the refuter's credibility never strengthens it.
	prev = 101
	for _, c := range []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9} {
		v := decide(0.95, c)
		if v.Label != LikelyTrue {
			t.Fatalf("refuter cred %.2f: label = %q, want likely_true", c, v.Label)
		}
		if v.Confidence > prev {
			t.Errorf("refuter cred %.2f: confidence rose from %d to %d", c, prev, v.Confidence)
		}
		prev = v.Confidence
	}
}

func TestDecideMixedEvidence(t *testing.T) {
	items := []EvidenceItem{
		{Kind: "original", Similarity: 0.5, Stance: "supports", StanceConfidence: 0.75, Credibility: 0.7},
		{Kind: "original", Similarity: 0.5, Stance: "refutes", StanceConfidence: 0.7, Credibility: 0.7},
	}

	v := NewEngine().Decide(items)
	if v.Label != MixedEvidence {
		t.Fatalf("label = %q, want mixed_evidence", v.Label)
	}
	// Low quality applies the 0.8 damping to the base 50.
	if v.Confidence != 40 {
		t.Errorf("confidence = %d, want 40", v.Confidence)
	}
	if v.CredibilityScore != 50 {
		t.Errorf("credibility = %d, want 50", v.CredibilityScore)
	}
	if v.EvidenceQuality != QualityLow {
		t.Errorf("quality = %q, want low", v.EvidenceQuality)
	}
}

func TestDecideAllNeutralIsMixed(t *testing.T) {
	items := []EvidenceItem{
		{Kind: "original", Similarity: 0.4, Stance: "neutral", StanceConfidence: 0.5, Credibility: 0.8},
	}
	v := NewEngine().Decide(items)
	if v.Label != MixedEvidence {
		t.Fatalf("label = %q, want mixed_evidence", v.Label)
	}
	if v.Confidence != 40 {
		t.Errorf("confidence = %d, want 40", v.Confidence)
	}
}

func TestDecideEmptyAndSentinel(t *testing.T) {
	for _, items := range [][]EvidenceItem{nil, {}, {Sentinel()}} {
		v := NewEngine().Decide(items)
		if v.Label != InsufficientData {
			t.Errorf("label = %q, want insufficient_data", v.Label)
		}
		if v.Confidence != 0 || v.CredibilityScore != 0 {
			t.Errorf("scores = %d/%d, want 0/0", v.Confidence, v.CredibilityScore)
		}
		if v.EvidenceQuality != QualityNone {
			t.Errorf("quality = %q, want none", v.EvidenceQuality)
		}
	}
}

func TestDecideSentinelMixedWithRealEvidence(t *testing.T) {
	items := []EvidenceItem{
		Sentinel(),
		{Kind: "original", Similarity: 0.7, Stance: "refutes", StanceConfidence: 0.8, Credibility: 0.9},
	}
	v := NewEngine().Decide(items)
	if v.Label != LikelyFalse {
		t.Errorf("label = %q, want likely_false (sentinel ignored)", v.Label)
	}
	if v.Stats.TotalArticles != 1 {
		t.Errorf("total = %d, want 1", v.Stats.TotalArticles)
	}
}

func TestIsSentinel(t *testing.T) {
	if !Sentinel().IsSentinel() {
		t.Error("Sentinel() not recognized")
	}
	real := EvidenceItem{Title: SentinelTitle, URL: "https://example.com"}
	if real.IsSentinel() {
		t.Error("item with a URL treated as sentinel")
	}
}

func TestConfidenceBounds(t *testing.T) {
	cases := [][]EvidenceItem{
		{{Kind: "factcheck", Similarity: 1, Stance: "refutes", StanceConfidence: 0.95, Credibility: 0.98}},
		{{Kind: "factcheck", Similarity: 1, Stance: "supports", StanceConfidence: 0.95, Credibility: 0.98}},
		{{Kind: "original", Similarity: 0, Stance: "neutral", StanceConfidence: 0.5, Credibility: 0.3}},
	}
	for i, items := range cases {
		v := NewEngine().Decide(items)
		if v.Confidence < 0 || v.Confidence > 95 {
			t.Errorf("case %d: confidence %d out of [0, 95]", i, v.Confidence)
		}
		if v.CredibilityScore < 0 || v.CredibilityScore > 95 {
			t.Errorf("case %d: credibility %d out of [0, 95]", i, v.CredibilityScore)
		}
	}
}
