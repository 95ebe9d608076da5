package domain

import "sort"

// PlayerRecord holds the durable statistics of a player.
type PlayerRecord struct {
	Owner        string `json:"owner"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Draws        int    `json:"draws"`
	Ranking      int    `json:"ranking"`
	TotalMatches int    `json:"total_matches"`
	OwnedCards   []int  `json:"owned_cards"` // sorted, no duplicates
}

// NewPlayerRecord returns the record a freshly created player starts with.
func NewPlayerRecord(owner string, initialRanking int) *PlayerRecord {
	return &PlayerRecord{
		Owner:      owner,
		Ranking:    initialRanking,
		OwnedCards: StarterDeck(),
	}
}

// ApplyWin records a won match.
func (r *PlayerRecord) ApplyWin(delta int) {
	r.Wins++
	r.TotalMatches++
	r.Ranking += delta
}

// ApplyLoss records a lost match. Ranking never drops below zero.
func (r *PlayerRecord) ApplyLoss(delta int) {
	r.Losses++
	r.TotalMatches++
	r.Ranking -= delta
	if r.Ranking < 0 {
		r.Ranking = 0
	}
}

// GrantCard adds cardID to the owned set. It reports whether the set changed.
func (r *PlayerRecord) GrantCard(cardID int) bool {
	i := sort.SearchInts(r.OwnedCards, cardID)
	if i < len(r.OwnedCards) && r.OwnedCards[i] == cardID {
		return false
	}
	r.OwnedCards = append(r.OwnedCards, 0)
	copy(r.OwnedCards[i+1:], r.OwnedCards[i:])
	r.OwnedCards[i] = cardID
	return true
}

// Owns reports whether cardID is in the owned set.
func (r *PlayerRecord) Owns(cardID int) bool {
	i := sort.SearchInts(r.OwnedCards, cardID)
	return i < len(r.OwnedCards) && r.OwnedCards[i] == cardID
}

// Clone returns a deep copy.
func (r *PlayerRecord) Clone() *PlayerRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.OwnedCards = append([]int(nil), r.OwnedCards...)
	return &out
}
