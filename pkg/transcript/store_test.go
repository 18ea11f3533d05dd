package transcript

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(sessionID string, created time.Time) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Prompt:    "what is 2+2?",
		Response:  "4",
		Status:    "success",
		LatencyMS: 120,
		CreatedAt: created,
	}
}

func TestSaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testEntry("sess-1", time.Now().Add(-time.Minute))
	second := testEntry("sess-1", time.Now())
	for _, e := range []*Entry{first, second} {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].ID != second.ID {
		t.Errorf("entries[0].ID = %s, want %s", entries[0].ID, second.ID)
	}
	if entries[0].Prompt != "what is 2+2?" || entries[0].Response != "4" {
		t.Errorf("entry round-trip mismatch: %+v", entries[0])
	}
}

func TestSaveTruncatesLongFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := testEntry("sess-1", time.Now())
	e.Prompt = strings.Repeat("p", MaxFieldLength+500)
	e.Response = strings.Repeat("r", MaxFieldLength+500)
	if err := store.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := len(entries[0].Prompt); got != MaxFieldLength {
		t.Errorf("stored prompt length = %d, want %d", got, MaxFieldLength)
	}
	if got := len(entries[0].Response); got != MaxFieldLength {
		t.Errorf("stored response length = %d, want %d", got, MaxFieldLength)
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// A multi-byte rune straddling the limit is dropped whole, never
	// split into invalid UTF-8.
	long := strings.Repeat("あ", MaxFieldLength) // 3 bytes per rune
	got := truncate(long, MaxFieldLength)

	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8")
	}
	if len(got) > MaxFieldLength {
		t.Errorf("truncated length = %d, want <= %d", len(got), MaxFieldLength)
	}
	if len(got)%3 != 0 {
		t.Errorf("truncated length = %d, not a whole number of runes", len(got))
	}

	if s := truncate("short", MaxFieldLength); s != "short" {
		t.Errorf("truncate(short) = %q", s)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := testEntry("sess-1", time.Now().AddDate(0, 0, -10))
	recent := testEntry("sess-2", time.Now())
	for _, e := range []*Entry{old, recent} {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	deleted, err := store.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestNewStoreCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "transcripts.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Close()
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestPrunerRespectsRetention(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := testEntry("sess-1", time.Now().AddDate(0, 0, -40))
	if err := store.Save(ctx, old); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Zero retention disables pruning.
	p := NewPruner(store, PrunerConfig{}, nil)
	deleted, err := p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d with zero retention, want 0", deleted)
	}

	p = NewPruner(store, PrunerConfig{RetentionDays: 30}, nil)
	deleted, err = p.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestPrunerStartRejectsBadSchedule(t *testing.T) {
	store := newTestStore(t)
	p := NewPruner(store, PrunerConfig{RetentionDays: 30, Schedule: "not-cron"}, nil)
	if err := p.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestPrunerStartStop(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPruner(store, PrunerConfig{RetentionDays: 30, Schedule: "0 3 * * *"}, nil)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !p.IsRunning() {
		t.Error("pruner not running after Start")
	}
	p.Stop()
	if p.IsRunning() {
		t.Error("pruner still running after Stop")
	}
}
