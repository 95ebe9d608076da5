package memory

import (
	"context"
	"sync/atomic"

	"blitztactics/internal/ports"
)

// GamesCounter counts finalized matches.
type GamesCounter struct {
	n atomic.Int64
}

var _ ports.GamesCounter = (*GamesCounter)(nil)

func (c *GamesCounter) IncrementGamesPlayed(context.Context) (int64, error) {
	return c.n.Add(1), nil
}

func (c *GamesCounter) GamesPlayed(context.Context) (int64, error) {
	return c.n.Load(), nil
}
