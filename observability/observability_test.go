package observability

import (
	"context"
	"testing"
	"time"

	"github.com/khojlab/tathya/dbopen"
	_ "modernc.org/sqlite"
)

func TestLogEventWritesRow(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	l := NewEventLogger(db)

	l.LogEvent(context.Background(), BusinessEvent{
		EventType:   "claim_verified",
		ServiceName: "tathya",
		EntityType:  "verification",
		EntityID:    "vrf_123",
		Action:      "verify",
		Details:     `{"verdict":"likely_true"}`,
		Success:     true,
	})

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM business_event_logs WHERE event_type = 'claim_verified'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	var id string
	if err := db.QueryRow(`SELECT event_id FROM business_event_logs`).Scan(&id); err != nil {
		t.Fatalf("select id: %v", err)
	}
	if len(id) < 5 || id[:4] != "evt_" {
		t.Errorf("event_id %q missing evt_ prefix", id)
	}
}

// WHAT: inserts an old and a fresh event, then runs Cleanup with 7-day
// retention.
// WHY: unbounded event logs eventually dominate the database file.
func TestCleanupRemovesOldEvents(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	l := NewEventLogger(db)
	ctx := context.Background()

	l.LogEvent(ctx, BusinessEvent{EventType: "fresh", ServiceName: "tathya", Action: "verify", Success: true})

	old := time.Now().Add(-30 * 24 * time.Hour).Unix()
	if _, err := db.Exec(`INSERT INTO business_event_logs (event_id, event_type, service_name, action, success, created_at)
		VALUES ('evt_old', 'stale', 'tathya', 'verify', 1, ?)`, old); err != nil {
		t.Fatalf("insert old: %v", err)
	}

	if err := Cleanup(ctx, db, RetentionConfig{EventLogsDays: 7}); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM business_event_logs`).Scan(&count)
	if count != 1 {
		t.Errorf("count after cleanup = %d, want 1", count)
	}
	var et string
	db.QueryRow(`SELECT event_type FROM business_event_logs`).Scan(&et)
	if et != "fresh" {
		t.Errorf("surviving event = %q, want fresh", et)
	}
}
