// Package history persists completed verifications for the /api/history
// endpoints and the MCP history tools.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khojlab/tathya/idgen"
	"github.com/khojlab/tathya/verdict"
)

// ErrNotFound is returned when a verification id does not exist.
var ErrNotFound = errors.New("history: verification not found")

// Schema is the DDL for the verifications table.
const Schema = `
CREATE TABLE IF NOT EXISTS verifications (
	id TEXT PRIMARY KEY,
	claim TEXT NOT NULL,
	language TEXT NOT NULL,
	verdict TEXT NOT NULL,
	confidence INTEGER NOT NULL,
	credibility INTEGER NOT NULL,
	evidence TEXT NOT NULL,
	reason TEXT NOT NULL,
	engine TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_verifications_created ON verifications(created_at DESC);
`

// Record is one stored verification.
type Record struct {
	ID          string                 `json:"id"`
	Claim       string                 `json:"claim"`
	Language    string                 `json:"language"`
	Verdict     string                 `json:"verdict"`
	Confidence  int                    `json:"confidence"`
	Credibility int                    `json:"credibility"`
	Evidence    []verdict.EvidenceItem `json:"evidence"`
	Reason      string                 `json:"reason"`
	Engine      string                 `json:"engine"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Store reads and writes verification records.
type Store struct {
	db    *sql.DB
	newID idgen.Generator
}

// Option configures the store.
type Option func(*Store)

// WithIDGenerator overrides the id generator. Used in tests.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// New builds a Store. The verifications table must exist (Schema).
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		newID: idgen.Prefixed("vrf_", idgen.Default),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the schema.
func Init(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("create verifications schema: %w", err)
	}
	return nil
}

// Insert stores a record and returns its generated id.
func (s *Store) Insert(ctx context.Context, rec *Record) (string, error) {
	id := s.newID()

	evidenceJSON, err := json.Marshal(rec.Evidence)
	if err != nil {
		return "", fmt.Errorf("marshal evidence: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO verifications (id, claim, language, verdict, confidence, credibility, evidence, reason, engine)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Claim, rec.Language, rec.Verdict, rec.Confidence, rec.Credibility,
		string(evidenceJSON), rec.Reason, rec.Engine)
	if err != nil {
		return "", fmt.Errorf("insert verification: %w", err)
	}
	return id, nil
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, claim, language, verdict, confidence, credibility, evidence, reason, engine, created_at
		FROM verifications WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, claim, language, verdict, confidence, credibility, evidence, reason, engine, created_at
		FROM verifications ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var evidenceJSON string
	err := row.Scan(&rec.ID, &rec.Claim, &rec.Language, &rec.Verdict, &rec.Confidence,
		&rec.Credibility, &evidenceJSON, &rec.Reason, &rec.Engine, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(evidenceJSON), &rec.Evidence); err != nil {
		return nil, fmt.Errorf("unmarshal evidence for %s: %w", rec.ID, err)
	}
	return &rec, nil
}
