package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
)

// consoleNotifier prints each event once, coloured by kind.
type consoleNotifier struct {
	out    io.Writer
	colors map[domain.EventKind]*color.Color
}

func newConsoleNotifier(out io.Writer) *consoleNotifier {
	return &consoleNotifier{
		out: out,
		colors: map[domain.EventKind]*color.Color{
			domain.EventMatchCreated:     color.New(color.FgCyan, color.Bold),
			domain.EventCardPlayed:       color.New(color.FgBlue),
			domain.EventTurnEnded:        color.New(color.FgHiBlack),
			domain.EventPlayerAttacked:   color.New(color.FgRed),
			domain.EventCombatResolved:   color.New(color.FgYellow),
			domain.EventGameFinished:     color.New(color.FgGreen, color.Bold),
			domain.EventCounterActivated: color.New(color.FgMagenta),
		},
	}
}

func (n *consoleNotifier) Notify(_ context.Context, events []domain.Event) error {
	for _, ev := range events {
		c, ok := n.colors[ev.Kind]
		if !ok {
			c = color.New(color.Reset)
		}
		if _, err := c.Fprintln(n.out, describe(ev)); err != nil {
			return err
		}
	}
	return nil
}

func describe(ev domain.Event) string {
	switch p := ev.Payload.(type) {
	case domain.MatchCreatedPayload:
		return fmt.Sprintf("match %d: %s vs %s", p.MatchID, short(p.SideA), short(p.SideB))
	case domain.CardPlayedPayload:
		return fmt.Sprintf("  %s plays %s (%d/%d, cost %d)", short(p.Player), p.Card.Name, p.Card.Attack, p.Card.Defense, p.Card.Cost)
	case domain.TurnEndedPayload:
		return fmt.Sprintf("  turn %d: %s to act", p.Turn, short(p.NextPlayer))
	case domain.PlayerAttackedPayload:
		return fmt.Sprintf("  %s hits %s for %d (%d left)", short(p.Attacker), short(p.Target), p.Damage, p.RemainingHealth)
	case domain.CombatResolvedPayload:
		return fmt.Sprintf("  %s: card %d vs card %d (attacker destroyed=%t, defender destroyed=%t)",
			short(p.Player), p.AttackerID, p.DefenderID, p.AttackerDestroyed, p.DefenderDestroyed)
	case domain.GameFinishedPayload:
		return fmt.Sprintf("match %d won by %s over %s (reward %d)", p.MatchID, short(p.Winner), short(p.Loser), p.Rewards)
	case domain.CounterActivatedPayload:
		return fmt.Sprintf("  %s counters card %d with %s", short(p.Player), p.TargetCard, p.CounterCard.Name)
	default:
		return string(ev.Kind)
	}
}

var _ ports.Notifier = (*consoleNotifier)(nil)
