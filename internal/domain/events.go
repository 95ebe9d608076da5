package domain

// EventKind identifies notifications emitted by match transitions.
type EventKind string

const (
	EventMatchCreated     EventKind = "match_created"
	EventCardPlayed       EventKind = "card_played"
	EventTurnEnded        EventKind = "turn_ended"
	EventPlayerAttacked   EventKind = "player_attacked"
	EventCombatResolved   EventKind = "combat_resolved"
	EventGameFinished     EventKind = "game_finished"
	EventCounterActivated EventKind = "counter_activated"
)

// Event is a notification addressed to Recipients (player identifiers).
type Event struct {
	Kind       EventKind `json:"kind"`
	Payload    any       `json:"payload"`
	Recipients []string  `json:"-"`
}

type MatchCreatedPayload struct {
	MatchID int64  `json:"match_id"`
	SideA   string `json:"side_a"`
	SideB   string `json:"side_b"`
}

type CardPlayedPayload struct {
	MatchID int64  `json:"match_id"`
	Player  string `json:"player"`
	Card    Card   `json:"card"`
}

type TurnEndedPayload struct {
	MatchID    int64  `json:"match_id"`
	NextPlayer string `json:"next_player"`
	Turn       int    `json:"turn"`
}

type PlayerAttackedPayload struct {
	MatchID         int64  `json:"match_id"`
	Attacker        string `json:"attacker"`
	CardID          int    `json:"card_id"`
	Damage          int    `json:"damage"`
	Target          string `json:"target"`
	RemainingHealth int    `json:"remaining_health"`
}

type CombatResolvedPayload struct {
	MatchID           int64  `json:"match_id"`
	Player            string `json:"player"`
	AttackerID        int    `json:"attacker_id"`
	DefenderID        int    `json:"defender_id"`
	AttackerDestroyed bool   `json:"attacker_destroyed"`
	DefenderDestroyed bool   `json:"defender_destroyed"`
}

type GameFinishedPayload struct {
	MatchID int64  `json:"match_id"`
	Winner  string `json:"winner"`
	Loser   string `json:"loser"`
	Rewards int64  `json:"rewards"`
}

type CounterActivatedPayload struct {
	Player      string `json:"player"`
	CounterCard Card   `json:"counter_card"`
	TargetCard  int    `json:"target_card"`
}
