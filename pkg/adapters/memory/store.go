package memory

import (
	"context"
	"sync"

	"github.com/aretw0/colorsort/pkg/domain"
)

// HistoryStore implements ports.HistoryStore in memory.
// Safe for concurrent use.
type HistoryStore struct {
	data []domain.SystemState
	mu   sync.RWMutex
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append records a deep copy of the snapshot.
func (s *HistoryStore) Append(ctx context.Context, state domain.SystemState) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, copied)
	return nil
}

// List returns copies of all snapshots so callers can't mutate the store.
func (s *HistoryStore) List(ctx context.Context) ([]domain.SystemState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SystemState, len(s.data))
	for i, st := range s.data {
		out[i] = st.Clone()
	}
	return out, nil
}

// Len returns the number of snapshots.
func (s *HistoryStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// Clear drops every snapshot.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
