package ports

import (
	"context"

	"blitztactics/internal/domain"
)

// PlayerStore persists player records.
type PlayerStore interface {
	// CreatePlayer creates the record for owner.
	// Returns domain.ErrAlreadyExists if a record already exists.
	CreatePlayer(ctx context.Context, owner string, initialRanking int) (*domain.PlayerRecord, error)

	// GetStats returns the record for owner or domain.ErrNotFound.
	GetStats(ctx context.Context, owner string) (*domain.PlayerRecord, error)

	// RecordWin adds a win and delta ranking. Missing records are ignored.
	RecordWin(ctx context.Context, owner string, delta int) error

	// RecordLoss adds a loss and removes delta ranking, floored at zero. Missing records are ignored.
	RecordLoss(ctx context.Context, owner string, delta int) error

	// GrantCard adds cardID to the owned set; granting an owned card is a no-op.
	// Returns domain.ErrNotFound if the record does not exist.
	GrantCard(ctx context.Context, owner string, cardID int) error
}

// MatchStore persists active matches and the player -> match index.
type MatchStore interface {
	// CreateMatch assigns the next match id to initial, stores it and indexes both owners.
	// Returns domain.ErrPlayerAlreadyInMatch if either owner already has an active match.
	CreateMatch(ctx context.Context, sideA, sideB string, initial *domain.Match) (*domain.Match, error)

	// GetMatchForPlayer resolves owner to their active match or domain.ErrNotFound.
	GetMatchForPlayer(ctx context.Context, owner string) (*domain.Match, error)

	// UpdateMatch overwrites the stored match with the same id when m.Revision
	// equals the stored revision, then advances m.Revision.
	// Returns domain.ErrNotFound if the id is not stored and domain.ErrStaleMatch
	// if another update committed since m was read.
	UpdateMatch(ctx context.Context, m *domain.Match) error

	// EndMatch removes the match and both index entries in one step.
	EndMatch(ctx context.Context, matchID int64) error
}

// GamesCounter tracks the number of completed matches.
type GamesCounter interface {
	IncrementGamesPlayed(ctx context.Context) (int64, error)
	GamesPlayed(ctx context.Context) (int64, error)
}
