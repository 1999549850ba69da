package memory

import (
	"context"
	"sync"
)

// Store keeps the submission flag in process memory.
type Store struct {
	mu        sync.RWMutex
	submitted bool
	writes    int
}

// NewStore creates a store with the given initial flag
func NewStore(submitted bool) *Store {
	return &Store{submitted: submitted}
}

func (s *Store) Submitted(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitted, nil
}

func (s *Store) SetSubmitted(_ context.Context, submitted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = submitted
	s.writes++
	return nil
}

// Writes reports how many times SetSubmitted has been called.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
