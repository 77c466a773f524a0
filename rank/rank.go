// Package rank orders evidence candidates by semantic similarity to the
// claim, using an embedding collaborator and cosine similarity.
package rank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/khojlab/tathya/embedding"
)

// maxCandidateLen bounds the text sent to the embedder per candidate.
const maxCandidateLen = 10000

// Candidate carries one evidence candidate through ranking. Score is
// filled in by Rank.
type Candidate struct {
	Title string
	URL   string
	Text  string
	Kind  string // "original" or "factcheck", carried through untouched
	Score float64
}

// Ranker scores candidates against a claim.
type Ranker struct {
	emb    embedding.Embedder
	logger *slog.Logger
}

// New creates a Ranker. A nil logger defaults to slog.Default().
func New(emb embedding.Embedder, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{emb: emb, logger: logger.With("component", "rank")}
}

// Rank embeds the claim and every candidate's text (truncated to a
// bounded length), scores each candidate by cosine similarity, and
// returns at most topK candidates sorted descending by score. Ties keep
// input order (stable sort). An embedding failure degrades to zero
// scores and input order rather than failing the request.
func (r *Ranker) Rank(ctx context.Context, claim string, cands []Candidate, topK int) []Candidate {
	if len(cands) == 0 || topK <= 0 {
		return nil
	}

	out := make([]Candidate, len(cands))
	copy(out, cands)

	texts := make([]string, 0, len(cands)+1)
	texts = append(texts, truncate(claim))
	for _, c := range cands {
		texts = append(texts, truncate(c.Text))
	}

	vecs, err := r.emb.EmbedBatch(ctx, texts)
	if err != nil {
		r.logger.Warn("embedding failed, ranking degrades to input order", "error", err)
	} else {
		claimVec := vecs[0]
		for i := range out {
			out[i].Score = embedding.CosineSimilarity(claimVec, vecs[i+1])
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if topK < len(out) {
		out = out[:topK]
	}
	return out
}

func truncate(s string) string {
	if len(s) > maxCandidateLen {
		return s[:maxCandidateLen]
	}
	return s
}
