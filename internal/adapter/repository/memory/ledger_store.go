// Package memory provides an in-process ledger store for tests and single-node runs.
package memory

import (
	"context"
	"sync"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// LedgerStore keeps ledger entries in a slice guarded by a mutex.
type LedgerStore struct {
	mu      sync.RWMutex
	entries []*domain.Entry
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// LastEntry returns the most recently appended entry, or nil when empty.
func (s *LedgerStore) LastEntry(_ context.Context) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, nil
	}
	return clone(s.entries[len(s.entries)-1]), nil
}

// AppendEntry appends entry if it continues from the current last entry.
func (s *LedgerStore) AppendEntry(_ context.Context, entry *domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastID := ""
	if n := len(s.entries); n > 0 {
		lastID = s.entries[n-1].ID
	}
	if entry.PreviousEntryID != lastID {
		return domain.ErrLedgerConflict
	}

	s.entries = append(s.entries, clone(entry))
	return nil
}

// ListEntries returns entries newest first.
func (s *LedgerStore) ListEntries(_ context.Context, limit, offset int) ([]*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Entry, 0, limit)
	for i := len(s.entries) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, clone(s.entries[i]))
	}
	return result, nil
}

// ListAllEntries returns every entry oldest first.
func (s *LedgerStore) ListAllEntries(_ context.Context) ([]*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Entry, len(s.entries))
	for i, e := range s.entries {
		result[i] = clone(e)
	}
	return result, nil
}

// Len returns the number of stored entries.
func (s *LedgerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func clone(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

var (
	_ usecase.LedgerStore     = (*LedgerStore)(nil)
	_ usecase.EntryRepository = (*LedgerStore)(nil)
)
