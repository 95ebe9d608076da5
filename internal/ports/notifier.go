package ports

import (
	"context"

	"blitztactics/internal/domain"
)

//go:generate go tool mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks

// Notifier delivers match events to their recipients.
type Notifier interface {
	// Notify sends events in order. Each recipient must observe them in the order given.
	Notify(ctx context.Context, events []domain.Event) error
}

// AIMover produces moves for computer controlled players.
type AIMover interface {
	// RequestMove asks for a move on behalf of playerID in the given match.
	// A nil match means the player has no active match.
	RequestMove(ctx context.Context, playerID string, match *domain.Match) error
}

// NoopAI is the AIMover used when no AI collaborator is configured.
type NoopAI struct{}

// RequestMove does nothing.
func (NoopAI) RequestMove(context.Context, string, *domain.Match) error { return nil }

var _ AIMover = NoopAI{}
