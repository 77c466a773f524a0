package llmjudge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khojlab/tathya/verdict"
)

// WHAT: Tests the model-backed verdict path against a stub chat server.
// WHY: Model output is untrusted; every malformed shape must degrade to
// an unclear assessment instead of failing a verification.

// chatServer returns an httptest server answering chat completion
// requests with the given message content.
func chatServer(t *testing.T, content string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if capture != nil && len(req.Messages) > 1 {
			*capture = req.Messages[1].Content
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
}

func newTestJudge(t *testing.T, ts *httptest.Server) *Judge {
	t.Helper()
	return New(Config{APIKey: "test-key", BaseURL: ts.URL + "/v1"}, nil)
}

func TestEvaluateParsesCleanJSON(t *testing.T) {
	var prompt string
	ts := chatServer(t, `{"verdict":"false","confidence":88,"reasoning":"contradicted by officials","key_points":["WHO statement"]}`, &prompt)
	defer ts.Close()

	items := []verdict.EvidenceItem{
		{Domain: "who.int", Snippet: "The WHO refuted the claim."},
		{Domain: "bbc.com", Snippet: "Officials called the claim false."},
	}
	a, err := newTestJudge(t, ts).Evaluate(context.Background(), "vaccines cause illness", items, "en")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if a.Verdict != VerdictFalse || a.Confidence != 88 {
		t.Errorf("assessment = %+v", a)
	}
	if len(a.KeyPoints) != 1 {
		t.Errorf("key points lost: %+v", a.KeyPoints)
	}

	if !strings.Contains(prompt, "1) who.int |") || !strings.Contains(prompt, "2) bbc.com |") {
		t.Errorf("numbered evidence block missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "vaccines cause illness") {
		t.Errorf("claim missing from prompt:\n%s", prompt)
	}
}

func TestEvaluateExtractsEmbeddedJSON(t *testing.T) {
	ts := chatServer(t, `Here is my analysis: {"verdict":"TRUE","confidence":120,"reasoning":"confirmed"} hope that helps`, nil)
	defer ts.Close()

	a, err := newTestJudge(t, ts).Evaluate(context.Background(), "claim", nil, "en")
	if err != nil {
		t.Fatal(err)
	}
	if a.Verdict != VerdictTrue {
		t.Errorf("verdict = %q, want true (case normalized)", a.Verdict)
	}
	if a.Confidence != 95 {
		t.Errorf("confidence = %d, want clamped to 95", a.Confidence)
	}
}

func TestEvaluateMalformedOutput(t *testing.T) {
	ts := chatServer(t, `I cannot determine this.`, nil)
	defer ts.Close()

	a, err := newTestJudge(t, ts).Evaluate(context.Background(), "claim", nil, "en")
	if err != nil {
		t.Fatalf("malformed output must not error: %v", err)
	}
	if a.Verdict != VerdictUnclear {
		t.Errorf("verdict = %q, want unclear", a.Verdict)
	}
	if a.Raw == "" {
		t.Error("raw payload not preserved")
	}
}

func TestEvaluateUnknownVerdictLabel(t *testing.T) {
	ts := chatServer(t, `{"verdict":"probably","confidence":40,"reasoning":"hedging"}`, nil)
	defer ts.Close()

	a, err := newTestJudge(t, ts).Evaluate(context.Background(), "claim", nil, "en")
	if err != nil {
		t.Fatal(err)
	}
	if a.Verdict != VerdictUnclear {
		t.Errorf("verdict = %q, want unclear for unknown label", a.Verdict)
	}
}

func TestEvaluateServerFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	a, err := newTestJudge(t, ts).Evaluate(context.Background(), "claim", nil, "en")
	if err != nil {
		t.Fatalf("server failure must degrade, not error: %v", err)
	}
	if a.Verdict != VerdictUnclear || a.Confidence != 10 {
		t.Errorf("assessment = %+v", a)
	}
}

func TestEvaluateUnconfigured(t *testing.T) {
	j := New(Config{}, nil)
	if j.Configured() {
		t.Fatal("judge with no key reports configured")
	}
	a, err := j.Evaluate(context.Background(), "claim", nil, "en")
	if err != nil {
		t.Fatal(err)
	}
	if a.Verdict != VerdictUnclear || !strings.Contains(a.Reasoning, "no API key") {
		t.Errorf("assessment = %+v", a)
	}
}

func TestBuildPromptSkipsSentinelAndCaps(t *testing.T) {
	j := New(Config{APIKey: "k", MaxEvidence: 2}, nil)
	items := []verdict.EvidenceItem{
		verdict.Sentinel(),
		{Domain: "a.com", Snippet: "one"},
		{Domain: "b.com", Snippet: "two"},
		{Domain: "c.com", Snippet: "three"},
	}
	prompt := j.buildPrompt("claim", items, "ne")
	if strings.Contains(prompt, "No sources found") {
		t.Error("sentinel leaked into prompt")
	}
	if !strings.Contains(prompt, "2) b.com") || strings.Contains(prompt, "c.com") {
		t.Errorf("evidence cap not applied:\n%s", prompt)
	}
}
