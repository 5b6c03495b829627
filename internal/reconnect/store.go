// Package reconnect persists the identity needed to resume a seat after a
// process restart: the room code and the lobby client id the server knows
// this client by. Tokens age out; the server forgets disconnected clients,
// so a stale token is worse than none.
package reconnect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nightfall/client/internal/game"
)

// DefaultTTL matches how long the server keeps a disconnected seat
// reservable.
const DefaultTTL = time.Hour

// Token is one saved reconnect identity.
type Token struct {
	RoomCode game.RoomCode      `json:"roomCode"`
	PlayerID game.LobbyClientID `json:"playerId"`
	SavedAt  time.Time          `json:"savedAt"`
}

// Expired reports whether the token is too old to be worth presenting.
func (t Token) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(t.SavedAt) > ttl
}

// FileStore keeps at most one token in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewFileStore returns a store backed by path. A ttl of zero means
// DefaultTTL.
func NewFileStore(path string, ttl time.Duration) *FileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{path: path, ttl: ttl, now: time.Now}
}

// Save writes the token, replacing any previous one.
func (s *FileStore) Save(token Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("reconnect store: %w", err)
	}
	body, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("reconnect store: %w", err)
	}
	if err := os.WriteFile(s.path, body, 0o600); err != nil {
		return fmt.Errorf("reconnect store: %w", err)
	}
	return nil
}

// Load returns the saved token if one exists and has not expired. An
// expired or unreadable token is purged on the way out.
func (s *FileStore) Load() (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := os.ReadFile(s.path)
	if err != nil {
		return Token{}, false
	}
	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		_ = os.Remove(s.path)
		return Token{}, false
	}
	if token.Expired(s.ttl, s.now()) {
		_ = os.Remove(s.path)
		return Token{}, false
	}
	return token, true
}

// Purge removes the saved token, if any.
func (s *FileStore) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reconnect store: %w", err)
	}
	return nil
}
