package nakama

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

type indexEntry struct {
	MatchID int64 `json:"match_id"`
}

// NakamaMatchAdapter implements ports.MatchStore and ports.GamesCounter.
// Matches are system-owned objects keyed by id; each player owns an index
// object pointing at their active match.
type NakamaMatchAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaMatchAdapter creates a new match storage adapter.
func NewNakamaMatchAdapter(nk runtime.NakamaModule) *NakamaMatchAdapter {
	return &NakamaMatchAdapter{nk: nk}
}

func matchKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// CreateMatch writes the match and both index entries in one storage batch.
// The index writes use version "*", so the batch fails if either player is already indexed.
func (a *NakamaMatchAdapter) CreateMatch(ctx context.Context, sideA, sideB string, initial *domain.Match) (*domain.Match, error) {
	for _, owner := range []string{sideA, sideB} {
		var idx indexEntry
		_, found, err := readObject(ctx, a.nk, collectionMatchIndex, keyActiveMatch, owner, &idx)
		if err != nil {
			return nil, err
		}
		if found {
			return nil, fmt.Errorf("player %s in match %d: %w", owner, idx.MatchID, domain.ErrPlayerAlreadyInMatch)
		}
	}

	id, err := incrementCounter(ctx, a.nk, keyNextMatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate match id: %w", err)
	}
	m := initial.Clone()
	m.ID = id

	matchWrite, err := newWrite(collectionMatches, matchKey(id), systemUserID, m, "*", runtime.STORAGE_PERMISSION_NO_READ)
	if err != nil {
		return nil, err
	}
	writes := []*runtime.StorageWrite{matchWrite}
	for _, owner := range []string{sideA, sideB} {
		w, err := newWrite(collectionMatchIndex, keyActiveMatch, owner, indexEntry{MatchID: id}, "*", runtime.STORAGE_PERMISSION_OWNER_READ)
		if err != nil {
			return nil, err
		}
		writes = append(writes, w)
	}

	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		if isVersionConflict(err) {
			return nil, fmt.Errorf("match %d: %w", id, domain.ErrPlayerAlreadyInMatch)
		}
		return nil, fmt.Errorf("failed to store match %d: %w", id, err)
	}
	return m, nil
}

func (a *NakamaMatchAdapter) GetMatchForPlayer(ctx context.Context, owner string) (*domain.Match, error) {
	var idx indexEntry
	_, found, err := readObject(ctx, a.nk, collectionMatchIndex, keyActiveMatch, owner, &idx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("active match for %s: %w", owner, domain.ErrNotFound)
	}
	m, _, err := a.getMatch(ctx, idx.MatchID)
	return m, err
}

func (a *NakamaMatchAdapter) getMatch(ctx context.Context, id int64) (*domain.Match, string, error) {
	var m domain.Match
	version, found, err := readObject(ctx, a.nk, collectionMatches, matchKey(id), systemUserID, &m)
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", fmt.Errorf("match %d: %w", id, domain.ErrNotFound)
	}
	return &m, version, nil
}

// UpdateMatch writes m if the stored match is still at m.Revision. The write is
// conditional on the storage version that revision was read under, so a commit
// landing between the read and the write is refused as well.
func (a *NakamaMatchAdapter) UpdateMatch(ctx context.Context, m *domain.Match) error {
	stored, version, err := a.getMatch(ctx, m.ID)
	if err != nil {
		return err
	}
	if stored.Revision != m.Revision {
		return fmt.Errorf("match %d at revision %d, update from %d: %w", m.ID, stored.Revision, m.Revision, domain.ErrStaleMatch)
	}

	next := m.Clone()
	next.Revision++
	w, err := newWrite(collectionMatches, matchKey(m.ID), systemUserID, next, version, runtime.STORAGE_PERMISSION_NO_READ)
	if err != nil {
		return err
	}
	if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{w}); err != nil {
		if isVersionConflict(err) {
			return fmt.Errorf("match %d: %w", m.ID, domain.ErrStaleMatch)
		}
		return fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}
	m.Revision = next.Revision
	return nil
}

// EndMatch deletes the match and the index entries still pointing at it in one call.
func (a *NakamaMatchAdapter) EndMatch(ctx context.Context, matchID int64) error {
	m, version, err := a.getMatch(ctx, matchID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	deletes := []*runtime.StorageDelete{{
		Collection: collectionMatches,
		Key:        matchKey(matchID),
		UserID:     systemUserID,
		Version:    version,
	}}
	for _, owner := range m.Participants() {
		var idx indexEntry
		idxVersion, found, err := readObject(ctx, a.nk, collectionMatchIndex, keyActiveMatch, owner, &idx)
		if err != nil {
			return err
		}
		if !found || idx.MatchID != matchID {
			continue
		}
		deletes = append(deletes, &runtime.StorageDelete{
			Collection: collectionMatchIndex,
			Key:        keyActiveMatch,
			UserID:     owner,
			Version:    idxVersion,
		})
	}

	if err := a.nk.StorageDelete(ctx, deletes); err != nil {
		return fmt.Errorf("failed to end match %d: %w", matchID, err)
	}
	return nil
}

func (a *NakamaMatchAdapter) IncrementGamesPlayed(ctx context.Context) (int64, error) {
	return incrementCounter(ctx, a.nk, keyGamesPlayed)
}

func (a *NakamaMatchAdapter) GamesPlayed(ctx context.Context) (int64, error) {
	return readCounter(ctx, a.nk, keyGamesPlayed)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

var (
	_ ports.MatchStore   = (*NakamaMatchAdapter)(nil)
	_ ports.GamesCounter = (*NakamaMatchAdapter)(nil)
)
