// Package inmem implements the storage contract in process memory. It backs
// tests and the STORAGE_DRIVER=memory development mode; nothing survives a restart.
package inmem

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence"
)

// Store is an in-memory implementation of persistence.Store. A single mutex
// makes every multi-key write atomic with respect to readers.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Save persists the session under both keys in one critical section.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("inmem: marshal profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[persistence.KeyAccessToken] = []byte(sess.Token)
	s.values[persistence.KeyUser] = profile
	return nil
}

// Load returns the persisted session, or session.ErrNotFound when absent.
func (s *Store) Load(ctx context.Context) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.values[persistence.KeyAccessToken]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	sess := session.Session{Token: string(token)}
	if raw, ok := s.values[persistence.KeyUser]; ok {
		if err := json.Unmarshal(raw, &sess.Profile); err != nil {
			return session.Session{}, fmt.Errorf("inmem: unmarshal profile: %w", err)
		}
	}
	return sess, nil
}

// Clear removes the session keys. Clearing an absent session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, persistence.KeyAccessToken)
	delete(s.values, persistence.KeyUser)
	return nil
}

// Replace overwrites the cached schedule collection wholesale.
func (s *Store) Replace(ctx context.Context, groups []schedule.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("inmem: marshal groups: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[persistence.KeyHorarios] = data
	return nil
}

// Groups returns the cached collection, empty when never populated.
func (s *Store) Groups(ctx context.Context) ([]schedule.Group, error) {
	s.mu.RLock()
	raw, ok := s.values[persistence.KeyHorarios]
	s.mu.RUnlock()

	if !ok {
		return []schedule.Group{}, nil
	}
	var groups []schedule.Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("inmem: unmarshal groups: %w", err)
	}
	return groups, nil
}

// Ping always succeeds for memory storage.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op for memory storage.
func (s *Store) Close() error { return nil }
