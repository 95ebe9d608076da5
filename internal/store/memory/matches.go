package memory

import (
	"context"
	"fmt"
	"sync"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// MatchStore keeps active matches and the player index behind one mutex, so
// creating and ending a match are atomic.
type MatchStore struct {
	mu      sync.RWMutex
	nextID  int64
	matches map[int64]*domain.Match
	index   map[string]int64
}

var _ ports.MatchStore = (*MatchStore)(nil)

func NewMatchStore() *MatchStore {
	return &MatchStore{
		matches: make(map[int64]*domain.Match),
		index:   make(map[string]int64),
	}
}

func (s *MatchStore) CreateMatch(_ context.Context, sideA, sideB string, initial *domain.Match) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, owner := range []string{sideA, sideB} {
		if id, ok := s.index[owner]; ok {
			return nil, fmt.Errorf("player %s in match %d: %w", owner, id, domain.ErrPlayerAlreadyInMatch)
		}
	}
	s.nextID++
	m := initial.Clone()
	m.ID = s.nextID
	s.matches[m.ID] = m
	s.index[sideA] = m.ID
	s.index[sideB] = m.ID
	return m.Clone(), nil
}

func (s *MatchStore) GetMatchForPlayer(_ context.Context, owner string) (*domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.index[owner]
	if !ok {
		return nil, fmt.Errorf("active match for %s: %w", owner, domain.ErrNotFound)
	}
	m, ok := s.matches[id]
	if !ok {
		return nil, fmt.Errorf("match %d: %w", id, domain.ErrNotFound)
	}
	return m.Clone(), nil
}

func (s *MatchStore) UpdateMatch(_ context.Context, m *domain.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.matches[m.ID]
	if !ok {
		return fmt.Errorf("match %d: %w", m.ID, domain.ErrNotFound)
	}
	if stored.Revision != m.Revision {
		return fmt.Errorf("match %d at revision %d, update from %d: %w", m.ID, stored.Revision, m.Revision, domain.ErrStaleMatch)
	}
	m.Revision++
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *MatchStore) EndMatch(_ context.Context, matchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil
	}
	for _, owner := range m.Participants() {
		if s.index[owner] == matchID {
			delete(s.index, owner)
		}
	}
	delete(s.matches, matchID)
	return nil
}
