package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"golang.org/x/sync/errgroup"

	"blitztactics/internal/config"
	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// Deps are the collaborators of a Coordinator. Economy, Notifier and AI are optional.
type Deps struct {
	Engine   *Engine
	Players  ports.PlayerStore
	Matches  ports.MatchStore
	Games    ports.GamesCounter
	Notifier ports.Notifier
	Economy  ports.EconomyPort
	AI       ports.AIMover
	Config   config.GameConfig
	Logger   runtime.Logger
}

// Coordinator runs player actions against stored matches: it serializes actions
// per match, persists accepted transitions, finalizes finished matches and
// delivers the resulting events.
type Coordinator struct {
	engine   *Engine
	players  ports.PlayerStore
	matches  ports.MatchStore
	games    ports.GamesCounter
	notifier ports.Notifier
	economy  ports.EconomyPort
	ai       ports.AIMover
	cfg      config.GameConfig
	logger   runtime.Logger
	locks    *keyLocks
}

// NewCoordinator validates deps and constructs a Coordinator.
func NewCoordinator(d Deps) (*Coordinator, error) {
	if d.Engine == nil || d.Players == nil || d.Matches == nil || d.Games == nil || d.Logger == nil {
		return nil, fmt.Errorf("coordinator not configured: engine, stores and logger are required")
	}
	if d.AI == nil {
		d.AI = ports.NoopAI{}
	}
	return &Coordinator{
		engine:   d.Engine,
		players:  d.Players,
		matches:  d.Matches,
		games:    d.Games,
		notifier: d.Notifier,
		economy:  d.Economy,
		ai:       d.AI,
		cfg:      d.Config,
		logger:   d.Logger,
		locks:    newKeyLocks(),
	}, nil
}

// CreatePlayerProfile creates the player record for owner.
func (c *Coordinator) CreatePlayerProfile(ctx context.Context, owner string) (*domain.PlayerRecord, error) {
	rec, err := c.players.CreatePlayer(ctx, owner, c.cfg.InitialRanking)
	if err != nil {
		return nil, fmt.Errorf("create player %s: %w", owner, err)
	}
	c.logger.Info("Created player profile for %s", owner)
	return rec, nil
}

// CreateMatch starts a match between actor (side A) and opponent (side B).
// Store failures, including either player already being in a match, are returned as errors.
func (c *Coordinator) CreateMatch(ctx context.Context, actor, opponent string) (Outcome, error) {
	if opponent == "" || opponent == actor {
		return Outcome{}, domain.ErrInvalidOpponent
	}
	m, err := c.matches.CreateMatch(ctx, actor, opponent, c.engine.NewMatch(actor, opponent))
	if err != nil {
		return Outcome{}, fmt.Errorf("create match %s vs %s: %w", actor, opponent, err)
	}
	c.logger.Info("Match %d created: %s vs %s", m.ID, actor, opponent)

	out := Outcome{Match: m, Events: []domain.Event{MatchCreated(m)}}
	c.notify(ctx, out.Events)
	return out, nil
}

// PlayCard plays cardID from the actor's hand.
func (c *Coordinator) PlayCard(ctx context.Context, actor string, cardID int) (Outcome, error) {
	return c.act(ctx, "PlayCard", actor, func(m *domain.Match) Outcome {
		return c.engine.PlayCard(m, actor, cardID)
	})
}

// EndTurn hands the turn to the opponent.
func (c *Coordinator) EndTurn(ctx context.Context, actor string) (Outcome, error) {
	return c.act(ctx, "EndTurn", actor, func(m *domain.Match) Outcome {
		return c.engine.EndTurn(m, actor)
	})
}

// AttackPlayer attacks the opponent directly with the creature attackerID.
func (c *Coordinator) AttackPlayer(ctx context.Context, actor string, attackerID int) (Outcome, error) {
	return c.act(ctx, "AttackPlayer", actor, func(m *domain.Match) Outcome {
		return c.engine.AttackPlayer(m, actor, attackerID)
	})
}

// AttackCreature attacks the opponent's creature defenderID with attackerID.
func (c *Coordinator) AttackCreature(ctx context.Context, actor string, attackerID, defenderID int) (Outcome, error) {
	return c.act(ctx, "AttackCreature", actor, func(m *domain.Match) Outcome {
		return c.engine.AttackCreature(m, actor, attackerID, defenderID)
	})
}

// InstantCounter broadcasts a counter card. It never changes a match, so no lock is taken.
func (c *Coordinator) InstantCounter(ctx context.Context, actor string, cardID, targetCardID int) (Outcome, error) {
	m, err := c.matches.GetMatchForPlayer(ctx, actor)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Outcome{}, fmt.Errorf("InstantCounter: load match for %s: %w", actor, err)
	}
	out := c.engine.InstantCounter(m, actor, cardID, targetCardID)
	if !out.Applied() {
		c.logger.Debug("InstantCounter rejected for %s: %v", actor, out.Reason)
		return out, nil
	}
	c.notify(ctx, out.Events)
	return out, nil
}

// RequestAIMove forwards to the AI collaborator with the actor's active match, if any.
func (c *Coordinator) RequestAIMove(ctx context.Context, actor string) error {
	m, err := c.matches.GetMatchForPlayer(ctx, actor)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("RequestAIMove: load match for %s: %w", actor, err)
	}
	if err := c.ai.RequestMove(ctx, actor, m); err != nil {
		return fmt.Errorf("RequestAIMove: %w", err)
	}
	return nil
}

// GetPlayerStats returns the record of owner or domain.ErrNotFound.
func (c *Coordinator) GetPlayerStats(ctx context.Context, owner string) (*domain.PlayerRecord, error) {
	return c.players.GetStats(ctx, owner)
}

// ListCatalog returns every card ordered by id.
func (c *Coordinator) ListCatalog() []domain.Card {
	return c.engine.Catalog().List()
}

// GetCard looks up a single card.
func (c *Coordinator) GetCard(id int) (domain.Card, bool) {
	return c.engine.Catalog().Lookup(id)
}

// GetTotalGamesPlayed returns the number of finalized matches.
func (c *Coordinator) GetTotalGamesPlayed(ctx context.Context) (int64, error) {
	return c.games.GamesPlayed(ctx)
}

// GetActiveMatch returns the active match of owner or domain.ErrNotFound.
func (c *Coordinator) GetActiveMatch(ctx context.Context, owner string) (*domain.Match, error) {
	return c.matches.GetMatchForPlayer(ctx, owner)
}

// GrantCard adds a catalog card to owner's collection.
func (c *Coordinator) GrantCard(ctx context.Context, owner string, cardID int) error {
	if _, ok := c.engine.Catalog().Lookup(cardID); !ok {
		return fmt.Errorf("card %d: %w", cardID, domain.ErrNotFound)
	}
	if err := c.players.GrantCard(ctx, owner, cardID); err != nil {
		return fmt.Errorf("grant card %d to %s: %w", cardID, owner, err)
	}
	return nil
}

// maxStaleAttempts bounds how often an action is re-run after losing a race
// against an update committed by another coordinator.
const maxStaleAttempts = 3

// act loads the actor's match, runs step under the match lock and commits the result.
// An update refused as stale is retried on a fresh read; once attempts run out
// the action is rejected with domain.ErrStaleMatch.
func (c *Coordinator) act(ctx context.Context, op, actor string, step func(*domain.Match) Outcome) (Outcome, error) {
	for attempt := 1; ; attempt++ {
		out, stale, err := c.try(ctx, op, actor, step)
		if !stale {
			return out, err
		}
		if attempt == maxStaleAttempts {
			c.logger.Warn("%s for %s gave up after %d stale attempts: %v", op, actor, attempt, err)
			return rejected(domain.ErrStaleMatch), nil
		}
		c.logger.Debug("%s for %s retrying: %v", op, actor, err)
	}
}

// try runs one attempt of act. stale reports that the commit lost to a
// concurrent update and nothing was written.
func (c *Coordinator) try(ctx context.Context, op, actor string, step func(*domain.Match) Outcome) (Outcome, bool, error) {
	m, err := c.matches.GetMatchForPlayer(ctx, actor)
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Debug("%s rejected for %s: no active match", op, actor)
		return rejected(fmt.Errorf("active match: %w", domain.ErrNotFound)), false, nil
	}
	if err != nil {
		return Outcome{}, false, fmt.Errorf("%s: load match for %s: %w", op, actor, err)
	}

	release := c.locks.Lock(m.ID)
	defer release()

	// Re-read under the lock; another action may have committed in between.
	current, err := c.matches.GetMatchForPlayer(ctx, actor)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && current.ID != m.ID) {
		c.logger.Debug("%s rejected for %s: match %d no longer active", op, actor, m.ID)
		return rejected(domain.ErrMatchFinished), false, nil
	}
	if err != nil {
		return Outcome{}, false, fmt.Errorf("%s: reload match %d: %w", op, m.ID, err)
	}

	if current.IsFinished() {
		// A previous finalization stopped before releasing the match.
		c.logger.Warn("%s: match %d found finished, completing finalization", op, current.ID)
		recovered := Outcome{Match: current, Events: []domain.Event{GameFinished(current)}}
		if err := c.finalize(ctx, &recovered); err != nil {
			return Outcome{}, false, fmt.Errorf("%s: finalize match %d: %w", op, current.ID, err)
		}
		c.notify(ctx, recovered.Events)
		return rejected(domain.ErrMatchFinished), false, nil
	}

	out := step(current)
	if !out.Applied() {
		c.logger.Debug("%s rejected for %s in match %d: %v", op, actor, current.ID, out.Reason)
		return out, false, nil
	}

	if err := c.matches.UpdateMatch(ctx, out.Match); err != nil {
		if errors.Is(err, domain.ErrStaleMatch) {
			return Outcome{}, true, err
		}
		return Outcome{}, false, fmt.Errorf("%s: update match %d: %w", op, current.ID, err)
	}

	if out.Finished() {
		if err := c.finalize(ctx, &out); err != nil {
			return Outcome{}, false, fmt.Errorf("%s: finalize match %d: %w", op, current.ID, err)
		}
	}

	c.notify(ctx, out.Events)
	return out, false, nil
}

// finalize records the result of a finished match and releases it from the store.
// Each completed step is persisted on the match before the next one runs, so a
// finalization interrupted by a failure resumes where it stopped. The reward
// granted to the winner is written into the GameFinished event.
func (c *Coordinator) finalize(ctx context.Context, out *Outcome) error {
	m := out.Match
	winner, loser := m.WinnerOwner(), m.LoserOwner()
	done := &m.Finalization

	if !done.WinRecorded || !done.LossRecorded {
		g, gctx := errgroup.WithContext(ctx)
		if !done.WinRecorded {
			g.Go(func() error {
				if err := c.players.RecordWin(gctx, winner, c.cfg.WinRankingDelta); err != nil {
					return fmt.Errorf("record win for %s: %w", winner, err)
				}
				done.WinRecorded = true
				return nil
			})
		}
		if !done.LossRecorded {
			g.Go(func() error {
				if err := c.players.RecordLoss(gctx, loser, c.cfg.LossRankingDelta); err != nil {
					return fmt.Errorf("record loss for %s: %w", loser, err)
				}
				done.LossRecorded = true
				return nil
			})
		}
		werr := g.Wait()
		if err := c.saveProgress(ctx, m); err != nil {
			return errors.Join(werr, err)
		}
		if werr != nil {
			return werr
		}
	}

	if !done.Counted {
		total, err := c.games.IncrementGamesPlayed(ctx)
		if err != nil {
			return fmt.Errorf("increment games played: %w", err)
		}
		done.Counted = true
		if err := c.saveProgress(ctx, m); err != nil {
			return err
		}
		c.logger.Debug("Match %d counted, games_played=%d", m.ID, total)
	}

	if !done.RewardGranted {
		done.Reward = c.grantReward(ctx, m, winner)
		done.RewardGranted = true
		if err := c.saveProgress(ctx, m); err != nil {
			return err
		}
	}
	for i := range out.Events {
		if p, ok := out.Events[i].Payload.(domain.GameFinishedPayload); ok {
			p.Rewards = done.Reward
			out.Events[i].Payload = p
		}
	}

	if err := c.matches.EndMatch(ctx, m.ID); err != nil {
		return fmt.Errorf("end match: %w", err)
	}
	c.logger.Info("Match %d finished: winner=%s loser=%s", m.ID, winner, loser)
	return nil
}

// saveProgress persists the finalization flags of m.
func (c *Coordinator) saveProgress(ctx context.Context, m *domain.Match) error {
	if err := c.matches.UpdateMatch(ctx, m); err != nil {
		return fmt.Errorf("save finalization progress: %w", err)
	}
	return nil
}

func (c *Coordinator) grantReward(ctx context.Context, m *domain.Match, winner string) int64 {
	if c.economy == nil || c.cfg.WinRewardGold <= 0 {
		return 0
	}
	grant := ports.RewardGrant{
		UserID: winner,
		Amount: c.cfg.WinRewardGold,
		Metadata: map[string]interface{}{
			"reason":   "match_win",
			"match_id": m.ID,
		},
	}
	if err := c.economy.GrantRewards(ctx, []ports.RewardGrant{grant}); err != nil {
		c.logger.Error("Failed to grant match reward to %s for match %d: %v", winner, m.ID, err)
		return 0
	}
	return grant.Amount
}

// notify delivers events. State is already committed, so delivery failures are only logged.
func (c *Coordinator) notify(ctx context.Context, events []domain.Event) {
	if c.notifier == nil || len(events) == 0 {
		return
	}
	if err := c.notifier.Notify(ctx, events); err != nil {
		c.logger.Error("Failed to deliver %d events: %v", len(events), err)
	}
}
