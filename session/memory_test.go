package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing session, got %v", err)
	}

	s := New("sess-1")
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil || got.ID != "sess-1" {
		t.Errorf("expected to retrieve sess-1, got %v err=%v", got, err)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected 0 sessions after delete, got %d", store.Len())
	}
}

func TestMemoryStoreReapRemovesOnlyExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	fresh := New("fresh")
	stale := New("stale")
	stale.LastActivity = time.Now().Add(-2 * time.Hour)

	_ = store.Put(ctx, fresh)
	_ = store.Put(ctx, stale)

	n, err := store.Reap(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Reap failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 reaped session, got %d", n)
	}
	if _, err := store.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Error("expected the stale session to have been reaped")
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Error("expected the fresh session to survive reaping")
	}
}

func TestStartReaperRunsOnTicker(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stale := New("stale")
	stale.LastActivity = time.Now().Add(-2 * time.Hour)
	_ = store.Put(context.Background(), stale)

	StartReaper(ctx, store, time.Hour, 10*time.Millisecond, discardLogger())

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if store.Len() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("expected StartReaper to have reaped the stale session within the deadline")
}
