// Package memory provides an in-memory SnapshotStore for tests and dev.
package memory

import (
	"context"
	"sync"

	"github.com/warp/retail-ledger/ledger"
)

// Store keeps the latest snapshot in memory. Save and Load both clone, so the
// stored snapshot never aliases a live one.
type Store struct {
	mu       sync.RWMutex
	snapshot *ledger.Ledger
}

func New() *Store {
	return &Store{}
}

func (s *Store) Save(_ context.Context, l *ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = l.Clone()
	return nil
}

func (s *Store) Load(_ context.Context) (*ledger.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, nil
	}
	return s.snapshot.Clone(), nil
}
