package app

import "blitztactics/internal/domain"

// Outcome is the result of an engine transition.
// A rejected transition carries a Reason and no match or events.
type Outcome struct {
	Match  *domain.Match
	Events []domain.Event
	Reason error
}

// Applied reports whether the transition was accepted.
func (o Outcome) Applied() bool {
	return o.Reason == nil
}

// Finished reports whether the transition ended the match.
func (o Outcome) Finished() bool {
	return o.Applied() && o.Match != nil && o.Match.IsFinished()
}

func rejected(reason error) Outcome {
	return Outcome{Reason: reason}
}
