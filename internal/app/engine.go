package app

import (
	"fmt"
	"time"

	"blitztactics/internal/config"
	"blitztactics/internal/domain"
)

// Engine computes match transitions. It never mutates the match it is given;
// accepted transitions return a modified copy.
type Engine struct {
	cfg     config.GameConfig
	catalog *domain.Catalog
	now     func() time.Time
}

// NewEngine constructs an Engine. A nil catalog uses the starter catalog and a nil
// clock uses time.Now.
func NewEngine(cfg config.GameConfig, catalog *domain.Catalog, now func() time.Time) *Engine {
	if catalog == nil {
		catalog = domain.StarterCatalog()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{cfg: cfg, catalog: catalog, now: now}
}

// Catalog returns the card table the engine resolves ids against.
func (e *Engine) Catalog() *domain.Catalog {
	return e.catalog
}

// NewMatch builds the initial state for a match between sideA and sideB.
// The match id is assigned by the store.
func (e *Engine) NewMatch(sideA, sideB string) *domain.Match {
	m := &domain.Match{
		SideA:         e.newSide(sideA),
		SideB:         e.newSide(sideB),
		CurrentTurn:   1,
		TurnStartedAt: e.now().UTC(),
		Phase:         domain.PhaseWaitingForPlayers,
	}
	return m
}

func (e *Engine) newSide(owner string) domain.PlayerInMatch {
	p := domain.PlayerInMatch{
		Owner:     owner,
		Health:    e.cfg.StartingHealth,
		Mana:      e.cfg.StartingMana,
		Hand:      []domain.Card{},
		Deck:      domain.StarterDeck(),
		Field:     []domain.Card{},
		Graveyard: []int{},
	}
	domain.DrawCards(&p, e.catalog, e.cfg.OpeningHandSize)
	return p
}

// PlayCard moves a card from the actor's hand to their field, paying its cost.
func (e *Engine) PlayCard(m *domain.Match, actor string, cardID int) Outcome {
	side, err := e.admit(m, actor)
	if err != nil {
		return rejected(err)
	}
	if m.ActingSide() != side {
		return rejected(domain.ErrInvalidTurn)
	}
	card, ok := e.catalog.Lookup(cardID)
	if !ok {
		return rejected(fmt.Errorf("card %d: %w", cardID, domain.ErrNotFound))
	}

	next := m.Clone()
	p := next.Player(side)
	if domain.IndexOfCard(p.Hand, cardID) < 0 {
		return rejected(domain.ErrCardNotInHand)
	}
	if p.Mana < card.Cost {
		return rejected(domain.ErrInsufficientMana)
	}

	p.Mana -= card.Cost
	p.Hand, _ = domain.RemoveFirstCard(p.Hand, cardID)
	p.Field = append(p.Field, card)
	start(next)

	return Outcome{
		Match: next,
		Events: []domain.Event{{
			Kind:       domain.EventCardPlayed,
			Payload:    domain.CardPlayedPayload{MatchID: next.ID, Player: actor, Card: card},
			Recipients: next.Participants(),
		}},
	}
}

// EndTurn passes the turn to the opponent. The incoming player draws and has
// their mana refilled for their new turn.
func (e *Engine) EndTurn(m *domain.Match, actor string) Outcome {
	side, err := e.admit(m, actor)
	if err != nil {
		return rejected(err)
	}
	if m.ActingSide() != side {
		return rejected(domain.ErrInvalidTurn)
	}

	next := m.Clone()
	next.CurrentTurn++
	next.TurnStartedAt = e.now().UTC()
	incoming := next.Player(next.ActingSide())
	domain.DrawCards(incoming, e.catalog, e.cfg.DrawPerTurn)
	incoming.Mana = e.ManaForTurn(next.CurrentTurn)
	start(next)

	return Outcome{
		Match: next,
		Events: []domain.Event{{
			Kind:       domain.EventTurnEnded,
			Payload:    domain.TurnEndedPayload{MatchID: next.ID, NextPlayer: incoming.Owner, Turn: next.CurrentTurn},
			Recipients: next.Participants(),
		}},
	}
}

// ManaForTurn returns the mana a side holds at the start of the given match turn.
// Each side's k-th turn grants starting mana plus (k-1) growth, capped at max mana.
func (e *Engine) ManaForTurn(turn int) int {
	k := (turn + 1) / 2
	mana := e.cfg.StartingMana + (k-1)*e.cfg.ManaGrowthPerTurn
	if mana > e.cfg.MaxMana {
		mana = e.cfg.MaxMana
	}
	if mana < 0 {
		mana = 0
	}
	return mana
}

// AttackPlayer deals the attacker's attack to the opponent's health.
// Reducing health to zero or below finishes the match.
func (e *Engine) AttackPlayer(m *domain.Match, actor string, attackerID int) Outcome {
	side, err := e.admit(m, actor)
	if err != nil {
		return rejected(err)
	}
	attacker := m.Player(side)
	idx := domain.IndexOfCard(attacker.Field, attackerID)
	if idx < 0 {
		return rejected(fmt.Errorf("attacker %d: %w", attackerID, domain.ErrNotFound))
	}
	damage := attacker.Field[idx].Attack

	next := m.Clone()
	target := next.Player(side.Other())
	target.Health -= damage
	start(next)

	if target.Health <= 0 {
		next.Phase = domain.PhaseFinished
		next.Winner = side
		return Outcome{Match: next, Events: []domain.Event{GameFinished(next)}}
	}

	return Outcome{
		Match: next,
		Events: []domain.Event{{
			Kind: domain.EventPlayerAttacked,
			Payload: domain.PlayerAttackedPayload{
				MatchID:         next.ID,
				Attacker:        actor,
				CardID:          attackerID,
				Damage:          damage,
				Target:          target.Owner,
				RemainingHealth: target.Health,
			},
			Recipients: next.Participants(),
		}},
	}
}

// AttackCreature resolves combat between one of the actor's creatures and one of
// the opponent's. Both sides deal damage on their pre-combat stats.
func (e *Engine) AttackCreature(m *domain.Match, actor string, attackerID, defenderID int) Outcome {
	side, err := e.admit(m, actor)
	if err != nil {
		return rejected(err)
	}
	ai := domain.IndexOfCard(m.Player(side).Field, attackerID)
	if ai < 0 {
		return rejected(fmt.Errorf("attacker %d: %w", attackerID, domain.ErrNotFound))
	}
	di := domain.IndexOfCard(m.Player(side.Other()).Field, defenderID)
	if di < 0 {
		return rejected(fmt.Errorf("defender %d: %w", defenderID, domain.ErrNotFound))
	}
	atk := m.Player(side).Field[ai]
	def := m.Player(side.Other()).Field[di]

	defenderDestroyed := atk.Attack >= def.Defense
	attackerDestroyed := def.Attack >= atk.Defense

	next := m.Clone()
	own := next.Player(side)
	opp := next.Player(side.Other())
	if defenderDestroyed {
		opp.Field, _ = domain.RemoveFirstCard(opp.Field, defenderID)
		opp.Graveyard = append(opp.Graveyard, defenderID)
	}
	if attackerDestroyed {
		own.Field, _ = domain.RemoveFirstCard(own.Field, attackerID)
		own.Graveyard = append(own.Graveyard, attackerID)
	}
	start(next)

	return Outcome{
		Match: next,
		Events: []domain.Event{{
			Kind: domain.EventCombatResolved,
			Payload: domain.CombatResolvedPayload{
				MatchID:           next.ID,
				Player:            actor,
				AttackerID:        attackerID,
				DefenderID:        defenderID,
				AttackerDestroyed: attackerDestroyed,
				DefenderDestroyed: defenderDestroyed,
			},
			Recipients: next.Participants(),
		}},
	}
}

// InstantCounter announces a counter card. Only the catalog is consulted: turn,
// mana and board state are not checked and no match is modified. m may be nil
// when the actor has no active match, in which case only the actor is notified.
func (e *Engine) InstantCounter(m *domain.Match, actor string, cardID, targetCardID int) Outcome {
	card, ok := e.catalog.Lookup(cardID)
	if !ok {
		return rejected(fmt.Errorf("card %d: %w", cardID, domain.ErrNotFound))
	}
	recipients := []string{actor}
	if m != nil && m.SideOf(actor) != domain.SideNone {
		recipients = m.Participants()
	}
	return Outcome{
		Match: m,
		Events: []domain.Event{{
			Kind:       domain.EventCounterActivated,
			Payload:    domain.CounterActivatedPayload{Player: actor, CounterCard: card, TargetCard: targetCardID},
			Recipients: recipients,
		}},
	}
}

// MatchCreated is the event announcing a freshly stored match.
func MatchCreated(m *domain.Match) domain.Event {
	return domain.Event{
		Kind:       domain.EventMatchCreated,
		Payload:    domain.MatchCreatedPayload{MatchID: m.ID, SideA: m.SideA.Owner, SideB: m.SideB.Owner},
		Recipients: m.Participants(),
	}
}

// GameFinished announces the result of a finished match. Rewards are filled in
// once finalization has granted them.
func GameFinished(m *domain.Match) domain.Event {
	return domain.Event{
		Kind: domain.EventGameFinished,
		Payload: domain.GameFinishedPayload{
			MatchID: m.ID,
			Winner:  m.WinnerOwner(),
			Loser:   m.LoserOwner(),
			Rewards: m.Finalization.Reward,
		},
		Recipients: m.Participants(),
	}
}

// admit checks the preconditions shared by every mutating action.
func (e *Engine) admit(m *domain.Match, actor string) (domain.Side, error) {
	if m == nil {
		return domain.SideNone, fmt.Errorf("match: %w", domain.ErrNotFound)
	}
	if m.IsFinished() {
		return domain.SideNone, domain.ErrMatchFinished
	}
	side := m.SideOf(actor)
	if side == domain.SideNone {
		return domain.SideNone, domain.ErrNotParticipant
	}
	return side, nil
}

func start(m *domain.Match) {
	if m.Phase == domain.PhaseWaitingForPlayers {
		m.Phase = domain.PhaseInProgress
	}
}
