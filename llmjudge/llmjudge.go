// Package llmjudge is the alternate verdict path: it hands the claim
// and gathered evidence to an OpenAI-compatible chat model and parses
// its assessment. Malformed model output degrades to an "unclear"
// assessment, never an error.
package llmjudge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/khojlab/tathya/verdict"
)

// Assessment verdict labels.
const (
	VerdictTrue    = "true"
	VerdictFalse   = "false"
	VerdictMixed   = "mixed"
	VerdictUnclear = "unclear"
)

// Assessment is the model's judgment of a claim.
type Assessment struct {
	Verdict    string   `json:"verdict"`
	Confidence int      `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	KeyPoints  []string `json:"key_points,omitempty"`
	Model      string   `json:"model"`
	Raw        string   `json:"-"`
}

// Config holds the chat completion settings. BaseURL points at any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxEvidence int           `yaml:"max_evidence"`
	Timeout     time.Duration `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "llama-3.3-70b-versatile"
	}
	if c.MaxEvidence <= 0 {
		c.MaxEvidence = 10
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Judge evaluates claims with a chat model.
type Judge struct {
	config Config
	client *openai.Client
	logger *slog.Logger
}

// New builds a Judge. A missing API key is tolerated; Evaluate then
// returns an explanatory unclear assessment instead of calling out.
func New(config Config, logger *slog.Logger) *Judge {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	j := &Judge{
		config: config,
		logger: logger.With("component", "llmjudge"),
	}
	if config.APIKey != "" {
		cc := openai.DefaultConfig(config.APIKey)
		if config.BaseURL != "" {
			cc.BaseURL = config.BaseURL
		}
		j.client = openai.NewClientWithConfig(cc)
	}
	return j
}

// Configured reports whether an API key is present.
func (j *Judge) Configured() bool { return j.client != nil }

const systemPrompt = `You are a fact-checker specializing in Nepali and English news claims.
Weigh the numbered evidence, consider source credibility, and look for contradictions.
Respond with JSON only, in this exact shape:
{"verdict": "true|false|mixed|unclear", "confidence": 0-95, "reasoning": "...", "key_points": ["..."]}`

// Evaluate asks the model for a verdict on the claim given the
// evidence items. All failure modes return an unclear Assessment; the
// error return is reserved for context cancellation.
func (j *Judge) Evaluate(ctx context.Context, claim string, items []verdict.EvidenceItem, lang string) (*Assessment, error) {
	if !j.Configured() {
		return &Assessment{
			Verdict:    VerdictUnclear,
			Confidence: 10,
			Reasoning:  "model judgment unavailable: no API key configured",
			Model:      "none",
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: j.buildPrompt(claim, items, lang)},
		},
		Temperature: 0,
		MaxTokens:   1500,
	})
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		j.logger.Warn("model call failed", "error", err)
		return &Assessment{
			Verdict:    VerdictUnclear,
			Confidence: 10,
			Reasoning:  fmt.Sprintf("model judgment unavailable: %v", err),
			Model:      j.config.Model,
		}, nil
	}
	if len(resp.Choices) == 0 {
		return j.unclear("model returned no choices", ""), nil
	}
	return j.parse(resp.Choices[0].Message.Content), nil
}

// buildPrompt renders the claim and a numbered evidence block.
func (j *Judge) buildPrompt(claim string, items []verdict.EvidenceItem, lang string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CLAIM (%s):\n%q\n\nEVIDENCE:\n", lang, claim)

	n := 0
	for _, it := range items {
		if it.IsSentinel() {
			continue
		}
		n++
		if n > j.config.MaxEvidence {
			break
		}
		fmt.Fprintf(&sb, "%d) %s | %s\n", n, it.Domain, it.Snippet)
	}
	if n == 0 {
		sb.WriteString("No evidence articles were found.\n")
	}
	sb.WriteString("\nProvide ONLY the JSON object, no additional text.")
	return sb.String()
}

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// parse decodes the model output. Non-JSON chatter around the object
// is tolerated; anything unparseable yields unclear with the raw text.
func (j *Judge) parse(content string) *Assessment {
	var a Assessment
	if err := json.Unmarshal([]byte(content), &a); err != nil {
		block := jsonBlock.FindString(content)
		if block == "" || json.Unmarshal([]byte(block), &a) != nil {
			j.logger.Warn("unparseable model output", "bytes", len(content))
			return j.unclear("model output was not valid JSON", content)
		}
	}

	a.Verdict = strings.ToLower(strings.TrimSpace(a.Verdict))
	switch a.Verdict {
	case VerdictTrue, VerdictFalse, VerdictMixed, VerdictUnclear:
	default:
		a.Verdict = VerdictUnclear
	}
	a.Confidence = min(95, max(0, a.Confidence))
	a.Model = j.config.Model
	a.Raw = content
	return &a
}

func (j *Judge) unclear(reason, raw string) *Assessment {
	return &Assessment{
		Verdict:    VerdictUnclear,
		Confidence: 10,
		Reasoning:  reason,
		Model:      j.config.Model,
		Raw:        raw,
	}
}
