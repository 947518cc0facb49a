package store

import (
	"context"
	"errors"
	"sync"

	"github.com/MrEthical07/tokengate"
)

var errEmptyUsername = errors.New("username must not be empty")

// MemoryStore keeps credentials in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]tokengate.CredentialRecord
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]tokengate.CredentialRecord),
	}
}

// Put inserts or replaces the record for rec.Username.
func (s *MemoryStore) Put(_ context.Context, rec tokengate.CredentialRecord) error {
	if rec.Username == "" {
		return errEmptyUsername
	}

	s.mu.Lock()
	s.records[rec.Username] = rec
	s.mu.Unlock()
	return nil
}

// Delete removes username. Unknown names are ignored.
func (s *MemoryStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	delete(s.records, username)
	s.mu.Unlock()
	return nil
}

// FindActive returns the record for username, or ErrCredentialNotFound when
// it is missing or inactive.
func (s *MemoryStore) FindActive(ctx context.Context, username string) (tokengate.CredentialRecord, error) {
	if err := ctx.Err(); err != nil {
		return tokengate.CredentialRecord{}, err
	}

	s.mu.RLock()
	rec, ok := s.records[username]
	s.mu.RUnlock()

	if !ok || !rec.Active {
		return tokengate.CredentialRecord{}, tokengate.ErrCredentialNotFound
	}
	return rec, nil
}

// Len reports how many records are stored, active or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
