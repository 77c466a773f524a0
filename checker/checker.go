// Package checker orchestrates claim verification: language detection,
// evidence search and aggregation, verdict computation, and history
// recording. It is the service behind both the HTTP API and the MCP
// tools.
package checker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/khojlab/tathya/evidence"
	"github.com/khojlab/tathya/history"
	"github.com/khojlab/tathya/langdetect"
	"github.com/khojlab/tathya/llmjudge"
	"github.com/khojlab/tathya/observability"
	"github.com/khojlab/tathya/search"
	"github.com/khojlab/tathya/verdict"
)

// Engine selection values.
const (
	EngineWeighted = "weighted"
	EngineLLM      = "llm"
)

// ErrEmptyClaim is returned when the claim is blank.
var ErrEmptyClaim = errors.New("checker: claim is empty")

// Config holds orchestration settings.
type Config struct {
	Engine      string        `yaml:"engine"` // weighted or llm
	MaxEvidence int           `yaml:"max_evidence"`
	Search      search.Config `yaml:"search"`
}

func (c *Config) defaults() {
	if c.Engine == "" {
		c.Engine = EngineWeighted
	}
	if c.MaxEvidence <= 0 {
		c.MaxEvidence = 10
	}
}

// Outcome is the full result of one verification.
type Outcome struct {
	ID           string                 `json:"id,omitempty"`
	Claim        string                 `json:"claim"`
	Language     string                 `json:"language"`
	Verdict      verdict.Verdict        `json:"verdict"`
	Evidence     []verdict.EvidenceItem `json:"evidence"`
	Assessment   *llmjudge.Assessment   `json:"assessment,omitempty"`
	Engine       string                 `json:"engine"`
	SearchEngine string                 `json:"search_engine"`
	Timestamp    time.Time              `json:"timestamp"`
}

// Service runs verifications.
type Service struct {
	config     Config
	google     *search.Google
	fallback   search.Searcher
	aggregator *evidence.Aggregator
	engine     *verdict.Engine
	judge      *llmjudge.Judge
	store      *history.Store
	events     *observability.EventLogger
	logger     *slog.Logger
}

// New builds a Service. The judge, store and event logger may be nil;
// the corresponding steps are then skipped.
func New(config Config, google *search.Google, fallback search.Searcher, aggregator *evidence.Aggregator, judge *llmjudge.Judge, store *history.Store, events *observability.EventLogger, logger *slog.Logger) *Service {
	config.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config:     config,
		google:     google,
		fallback:   fallback,
		aggregator: aggregator,
		engine:     verdict.NewEngine(),
		judge:      judge,
		store:      store,
		events:     events,
		logger:     logger.With("component", "checker"),
	}
}

// SearchConfigured reports which search engines have credentials.
func (s *Service) SearchConfigured() (google, fallback bool) {
	return s.google != nil && s.google.Configured(), s.fallback != nil
}

// Verify runs the full pipeline for a claim. Collaborator failures
// degrade: a claim with no reachable evidence still gets a verdict
// (insufficient_data). The only error is an empty claim.
func (s *Service) Verify(ctx context.Context, claim, lang string) (*Outcome, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil, ErrEmptyClaim
	}

	lang = langdetect.Normalize(lang)
	if lang == "" {
		lang = langdetect.Detect(claim)
	}

	results, searchEngine := s.search(ctx, claim, lang)
	items := s.aggregator.Aggregate(ctx, claim, lang, results, s.config.MaxEvidence)
	v := s.engine.Decide(items)

	outcome := &Outcome{
		Claim:        claim,
		Language:     lang,
		Verdict:      v,
		Evidence:     items,
		Engine:       EngineWeighted,
		SearchEngine: searchEngine,
		Timestamp:    time.Now().UTC(),
	}

	if s.config.Engine == EngineLLM && s.judge != nil {
		assessment, err := s.judge.Evaluate(ctx, claim, items, lang)
		if err != nil {
			s.logger.Warn("model judgment aborted", "error", err)
		} else {
			outcome.Assessment = assessment
		}
		outcome.Engine = EngineLLM
	}

	s.record(ctx, outcome)
	return outcome, nil
}

// search tries the primary engine and falls back. Both failing is not
// fatal: verification proceeds with zero results.
func (s *Service) search(ctx context.Context, claim, lang string) ([]search.Result, string) {
	if s.google != nil && s.google.Configured() {
		results, err := search.Gather(ctx, s.google, claim, s.config.Search, lang)
		if err == nil {
			return results, s.google.Name()
		}
		s.logger.Warn("primary search failed, falling back", "error", err)
	}
	if s.fallback != nil {
		results, err := search.Gather(ctx, s.fallback, claim, s.config.Search, lang)
		if err == nil {
			return results, s.fallback.Name()
		}
		s.logger.Warn("fallback search failed", "error", err)
	}
	return nil, "none"
}

// record persists the outcome and logs a business event. Both are
// fail-soft.
func (s *Service) record(ctx context.Context, outcome *Outcome) {
	if s.store != nil {
		id, err := s.store.Insert(ctx, &history.Record{
			Claim:       outcome.Claim,
			Language:    outcome.Language,
			Verdict:     outcome.Verdict.Label,
			Confidence:  outcome.Verdict.Confidence,
			Credibility: outcome.Verdict.CredibilityScore,
			Evidence:    outcome.Evidence,
			Reason:      outcome.Verdict.Reason,
			Engine:      outcome.Engine,
		})
		if err != nil {
			s.logger.Error("history insert failed", "error", err)
		} else {
			outcome.ID = id
		}
	}

	if s.events != nil {
		s.events.LogEvent(ctx, observability.BusinessEvent{
			EventType:   "verification_completed",
			ServiceName: "checker",
			EntityType:  "verification",
			EntityID:    outcome.ID,
			Action:      outcome.Verdict.Label,
			Success:     true,
		})
	}
}

// GetVerification returns one stored verification.
func (s *Service) GetVerification(ctx context.Context, id string) (*history.Record, error) {
	if s.store == nil {
		return nil, history.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// ListHistory returns stored verifications, newest first.
func (s *Service) ListHistory(ctx context.Context, limit, offset int) ([]*history.Record, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, limit, offset)
}
