// Package transcript keeps the per-session, append-only list of turns shown
// by the web UI.
package transcript

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/message"
)

// Store persists turns per session.
type Store interface {
	// Append adds a turn to the end of the session's transcript.
	Append(ctx context.Context, sessionID string, turn message.Turn) error

	// List returns the session's turns, most recent first.
	List(ctx context.Context, sessionID string) ([]message.Turn, error)

	// Close releases any resources held by the store.
	Close() error
}

// Open creates the store selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageMemory, "":
		return NewMemoryStore(), nil
	case config.StorageSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// MemoryStore keeps transcripts in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]message.Turn
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]message.Turn)}
}

// Append adds turn to the end of the session's transcript.
func (s *MemoryStore) Append(_ context.Context, sessionID string, turn message.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}

// List returns a copy of the session's turns, most recent first. An unknown
// session has no turns.
func (s *MemoryStore) List(_ context.Context, sessionID string) ([]message.Turn, error) {
	s.mu.RLock()
	turns := slices.Clone(s.sessions[sessionID])
	s.mu.RUnlock()

	slices.Reverse(turns)
	return turns, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
