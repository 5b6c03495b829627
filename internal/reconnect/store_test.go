package reconnect

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, ttl time.Duration) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "reconnect.json"), ttl)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)
	token := Token{RoomCode: 42, PlayerID: 5, SavedAt: time.Now()}

	if err := store.Save(token); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := store.Load()
	if !ok {
		t.Fatalf("expected token to load")
	}
	if got.RoomCode != 42 || got.PlayerID != 5 {
		t.Fatalf("unexpected token %#v", got)
	}
}

func TestLoadMissingToken(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if _, ok := store.Load(); ok {
		t.Fatalf("expected no token")
	}
}

func TestExpiredTokenIsPurged(t *testing.T) {
	store := newTestStore(t, time.Hour)
	token := Token{RoomCode: 1, PlayerID: 2, SavedAt: time.Now().Add(-2 * time.Hour)}
	if err := store.Save(token); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, ok := store.Load(); ok {
		t.Fatalf("expected expired token to be rejected")
	}
	// the file is gone now, not just ignored
	if _, ok := store.Load(); ok {
		t.Fatalf("expected expired token to be purged")
	}
}

func TestPurge(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if err := store.Purge(); err != nil {
		t.Fatalf("purge on empty store: %v", err)
	}
	if err := store.Save(Token{RoomCode: 1, PlayerID: 1, SavedAt: time.Now()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Purge(); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatalf("expected token gone after purge")
	}
}
