package domain

import "time"

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseWaitingForPlayers is the state of a freshly created match.
	PhaseWaitingForPlayers Phase = "waiting_for_players"
	// PhaseInProgress is entered on the first accepted action.
	PhaseInProgress Phase = "in_progress"
	// PhaseFinished is terminal; no further mutation is allowed.
	PhaseFinished Phase = "finished"
)

// Side identifies one of the two participants. Side A created the match.
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return ""
	}
}

// Other returns the opposing side.
func (s Side) Other() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// PlayerInMatch is one side's board state.
type PlayerInMatch struct {
	Owner     string `json:"owner"`
	Health    int    `json:"health"` // may drop below zero on the finishing blow
	Mana      int    `json:"mana"`
	Hand      []Card `json:"hand"`
	Deck      []int  `json:"deck"`
	Field     []Card `json:"field"`
	Graveyard []int  `json:"graveyard"`
}

// Match is the full state of a two-player match.
type Match struct {
	ID            int64         `json:"match_id"`
	SideA         PlayerInMatch `json:"side_a"`
	SideB         PlayerInMatch `json:"side_b"`
	CurrentTurn   int           `json:"current_turn"`
	TurnStartedAt time.Time     `json:"turn_started_at"`
	Phase         Phase         `json:"phase"`
	Winner        Side          `json:"winner,omitempty"`

	// Revision counts committed updates. A store only accepts an update whose
	// Revision equals the stored one.
	Revision int64 `json:"revision"`

	// Finalization records which result steps of a finished match are done.
	Finalization Finalization `json:"finalization"`
}

// Finalization tracks the steps run once a match finishes, so an interrupted
// finalization resumes without repeating completed steps.
type Finalization struct {
	WinRecorded   bool  `json:"win_recorded,omitempty"`
	LossRecorded  bool  `json:"loss_recorded,omitempty"`
	Counted       bool  `json:"counted,omitempty"`
	RewardGranted bool  `json:"reward_granted,omitempty"`
	Reward        int64 `json:"reward,omitempty"`
}

// ActingSide returns whose turn it is: odd turns belong to A, even turns to B.
func (m *Match) ActingSide() Side {
	if m.CurrentTurn%2 == 1 {
		return SideA
	}
	return SideB
}

// SideOf returns the side owned by owner, or SideNone.
func (m *Match) SideOf(owner string) Side {
	switch owner {
	case m.SideA.Owner:
		return SideA
	case m.SideB.Owner:
		return SideB
	default:
		return SideNone
	}
}

// Player returns a pointer to the given side's state, nil for SideNone.
func (m *Match) Player(side Side) *PlayerInMatch {
	switch side {
	case SideA:
		return &m.SideA
	case SideB:
		return &m.SideB
	default:
		return nil
	}
}

// Participants returns both owners, side A first.
func (m *Match) Participants() []string {
	return []string{m.SideA.Owner, m.SideB.Owner}
}

// IsFinished reports whether the match reached its terminal phase.
func (m *Match) IsFinished() bool {
	return m.Phase == PhaseFinished
}

// WinnerOwner returns the owner of the winning side, or "" when there is none.
func (m *Match) WinnerOwner() string {
	if p := m.Player(m.Winner); p != nil {
		return p.Owner
	}
	return ""
}

// LoserOwner returns the owner of the losing side, or "" when there is no winner.
func (m *Match) LoserOwner() string {
	if p := m.Player(m.Winner.Other()); p != nil {
		return p.Owner
	}
	return ""
}

// Clone returns a deep copy.
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	out := *m
	out.SideA = m.SideA.clone()
	out.SideB = m.SideB.clone()
	return &out
}

func (p PlayerInMatch) clone() PlayerInMatch {
	p.Hand = append([]Card(nil), p.Hand...)
	p.Deck = append([]int(nil), p.Deck...)
	p.Field = append([]Card(nil), p.Field...)
	p.Graveyard = append([]int(nil), p.Graveyard...)
	return p
}
