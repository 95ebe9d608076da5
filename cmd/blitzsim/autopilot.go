package main

import (
	"context"
	"fmt"
	"sort"

	"blitztactics/internal/app"
	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// autopilot plays a whole turn greedily: it spends mana on the most expensive
// affordable cards, trades creatures when the trade is free and otherwise
// attacks face, then ends the turn.
type autopilot struct {
	coord *app.Coordinator
}

func (p *autopilot) RequestMove(ctx context.Context, playerID string, m *domain.Match) error {
	if m == nil || m.IsFinished() {
		return nil
	}
	if m.Player(m.ActingSide()).Owner != playerID {
		return nil
	}

	m, err := p.playCards(ctx, playerID, m)
	if err != nil || m.IsFinished() {
		return err
	}
	m, err = p.attack(ctx, playerID, m)
	if err != nil || m.IsFinished() {
		return err
	}
	out, err := p.coord.EndTurn(ctx, playerID)
	if err != nil {
		return err
	}
	if !out.Applied() {
		return fmt.Errorf("end turn rejected: %w", out.Reason)
	}
	return nil
}

func (p *autopilot) playCards(ctx context.Context, playerID string, m *domain.Match) (*domain.Match, error) {
	me := m.Player(m.SideOf(playerID))
	hand := append([]domain.Card(nil), me.Hand...)
	sort.SliceStable(hand, func(i, j int) bool { return hand[i].Cost > hand[j].Cost })

	mana := me.Mana
	for _, c := range hand {
		if c.Cost > mana {
			continue
		}
		out, err := p.coord.PlayCard(ctx, playerID, c.ID)
		if err != nil {
			return nil, err
		}
		if !out.Applied() {
			continue
		}
		m = out.Match
		mana = m.Player(m.SideOf(playerID)).Mana
	}
	return m, nil
}

func (p *autopilot) attack(ctx context.Context, playerID string, m *domain.Match) (*domain.Match, error) {
	side := m.SideOf(playerID)
	attackers := append([]domain.Card(nil), m.Player(side).Field...)

	for _, a := range attackers {
		if a.Attack <= 0 {
			continue
		}
		var (
			out app.Outcome
			err error
		)
		if d, ok := freeTrade(a, m.Player(side.Other()).Field); ok {
			out, err = p.coord.AttackCreature(ctx, playerID, a.ID, d.ID)
		} else {
			out, err = p.coord.AttackPlayer(ctx, playerID, a.ID)
		}
		if err != nil {
			return nil, err
		}
		if !out.Applied() {
			continue
		}
		m = out.Match
		if m.IsFinished() {
			return m, nil
		}
	}
	return m, nil
}

// freeTrade finds a defender that a kills without dying.
func freeTrade(a domain.Card, defenders []domain.Card) (domain.Card, bool) {
	for _, d := range defenders {
		if a.Attack >= d.Defense && d.Attack < a.Defense {
			return d, true
		}
	}
	return domain.Card{}, false
}

var _ ports.AIMover = (*autopilot)(nil)
