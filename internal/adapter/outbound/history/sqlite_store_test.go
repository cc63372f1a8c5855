package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/port/outbound"
)

func newTestStore(t *testing.T, maxEntries int) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), maxEntries)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t, 100)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []outbound.HistoryEntry{
		{Op: "login", Outcome: outbound.OutcomeOK, Detail: "ana@example.com", Duration: 120 * time.Millisecond, CreatedAt: base},
		{Op: "cart.add", Outcome: outbound.OutcomeOK, Detail: "p1 x2", Duration: 80 * time.Millisecond, CreatedAt: base.Add(time.Second)},
		{Op: "cart.add", Outcome: outbound.OutcomeError, Detail: "quantity exceeds stock", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	// Newest first.
	if got[0].Op != "cart.add" || got[0].Outcome != outbound.OutcomeError {
		t.Errorf("expected newest entry first, got %+v", got[0])
	}
	if got[2].Op != "login" {
		t.Errorf("expected oldest entry last, got %+v", got[2])
	}
	if got[2].Duration != 120*time.Millisecond {
		t.Errorf("expected duration round-trip, got %v", got[2].Duration)
	}
	if got[0].ID == "" {
		t.Error("expected an assigned id")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := newTestStore(t, 100)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := store.Record(ctx, outbound.HistoryEntry{
			Op:        "cart.refresh",
			Outcome:   outbound.OutcomeOK,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 entries, got %d", len(got))
	}
}

func TestRetentionPrunesOldest(t *testing.T) {
	store := newTestStore(t, 3)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ops := []string{"first", "second", "third", "fourth", "fifth"}
	for i, op := range ops {
		err := store.Record(ctx, outbound.HistoryEntry{
			Op:        op,
			Outcome:   outbound.OutcomeOK,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected retention bound of 3, got %d entries", len(got))
	}
	want := []string{"fifth", "fourth", "third"}
	for i, op := range want {
		if got[i].Op != op {
			t.Errorf("entry %d: expected %q, got %q", i, op, got[i].Op)
		}
	}
}
