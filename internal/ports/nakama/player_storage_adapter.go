package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// NakamaPlayerAdapter implements ports.PlayerStore on user-owned storage objects.
type NakamaPlayerAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaPlayerAdapter creates a new player storage adapter.
func NewNakamaPlayerAdapter(nk runtime.NakamaModule) *NakamaPlayerAdapter {
	return &NakamaPlayerAdapter{nk: nk}
}

// CreatePlayer writes the record with version "*" so only the first attempt succeeds.
func (a *NakamaPlayerAdapter) CreatePlayer(ctx context.Context, owner string, initialRanking int) (*domain.PlayerRecord, error) {
	rec := domain.NewPlayerRecord(owner, initialRanking)
	w, err := newWrite(collectionPlayers, keyPlayerRecord, owner, rec, "*", runtime.STORAGE_PERMISSION_PUBLIC_READ)
	if err != nil {
		return nil, err
	}
	if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{w}); err != nil {
		if isVersionConflict(err) {
			return nil, fmt.Errorf("player %s: %w", owner, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create player %s: %w", owner, err)
	}
	return rec, nil
}

func (a *NakamaPlayerAdapter) GetStats(ctx context.Context, owner string) (*domain.PlayerRecord, error) {
	var rec domain.PlayerRecord
	_, found, err := readObject(ctx, a.nk, collectionPlayers, keyPlayerRecord, owner, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("player %s: %w", owner, domain.ErrNotFound)
	}
	return &rec, nil
}

func (a *NakamaPlayerAdapter) RecordWin(ctx context.Context, owner string, delta int) error {
	err := a.update(ctx, owner, func(rec *domain.PlayerRecord) bool {
		rec.ApplyWin(delta)
		return true
	})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (a *NakamaPlayerAdapter) RecordLoss(ctx context.Context, owner string, delta int) error {
	err := a.update(ctx, owner, func(rec *domain.PlayerRecord) bool {
		rec.ApplyLoss(delta)
		return true
	})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (a *NakamaPlayerAdapter) GrantCard(ctx context.Context, owner string, cardID int) error {
	return a.update(ctx, owner, func(rec *domain.PlayerRecord) bool {
		return rec.GrantCard(cardID)
	})
}

// update applies mutate under optimistic concurrency. mutate reports whether a write is needed.
func (a *NakamaPlayerAdapter) update(ctx context.Context, owner string, mutate func(*domain.PlayerRecord) bool) error {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var rec domain.PlayerRecord
		version, found, err := readObject(ctx, a.nk, collectionPlayers, keyPlayerRecord, owner, &rec)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("player %s: %w", owner, domain.ErrNotFound)
		}
		if !mutate(&rec) {
			return nil
		}
		w, err := newWrite(collectionPlayers, keyPlayerRecord, owner, &rec, version, runtime.STORAGE_PERMISSION_PUBLIC_READ)
		if err != nil {
			return err
		}
		if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{w}); err != nil {
			if isVersionConflict(err) {
				continue
			}
			return fmt.Errorf("failed to update player %s: %w", owner, err)
		}
		return nil
	}
	return fmt.Errorf("player %s: too much contention", owner)
}

var _ ports.PlayerStore = (*NakamaPlayerAdapter)(nil)
