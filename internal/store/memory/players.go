// Package memory holds in-process store implementations used by the simulator and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// PlayerStore keeps player records in a map.
type PlayerStore struct {
	mu      sync.RWMutex
	records map[string]*domain.PlayerRecord
}

var _ ports.PlayerStore = (*PlayerStore)(nil)

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{records: make(map[string]*domain.PlayerRecord)}
}

func (s *PlayerStore) CreatePlayer(_ context.Context, owner string, initialRanking int) (*domain.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[owner]; ok {
		return nil, fmt.Errorf("player %s: %w", owner, domain.ErrAlreadyExists)
	}
	rec := domain.NewPlayerRecord(owner, initialRanking)
	s.records[owner] = rec
	return rec.Clone(), nil
}

func (s *PlayerStore) GetStats(_ context.Context, owner string) (*domain.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[owner]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", owner, domain.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (s *PlayerStore) RecordWin(_ context.Context, owner string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[owner]; ok {
		rec.ApplyWin(delta)
	}
	return nil
}

func (s *PlayerStore) RecordLoss(_ context.Context, owner string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[owner]; ok {
		rec.ApplyLoss(delta)
	}
	return nil
}

func (s *PlayerStore) GrantCard(_ context.Context, owner string, cardID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[owner]
	if !ok {
		return fmt.Errorf("player %s: %w", owner, domain.ErrNotFound)
	}
	rec.GrantCard(cardID)
	return nil
}
