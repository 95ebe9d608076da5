package domain

// IndexOfCard returns the index of the first card with id, or -1.
func IndexOfCard(cards []Card, id int) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// RemoveFirstCard removes the first card with id and returns the updated slice.
// The input is returned unchanged when no card matches.
func RemoveFirstCard(cards []Card, id int) ([]Card, bool) {
	i := IndexOfCard(cards, id)
	if i < 0 {
		return cards, false
	}
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	out = append(out, cards[i+1:]...)
	return out, true
}

// DrawCards moves up to n card ids from the front of the deck into the hand,
// resolving each id through the catalog. Ids the catalog does not know are discarded.
func DrawCards(p *PlayerInMatch, catalog *Catalog, n int) int {
	drawn := 0
	for drawn < n && len(p.Deck) > 0 {
		id := p.Deck[0]
		p.Deck = p.Deck[1:]
		if card, ok := catalog.Lookup(id); ok {
			p.Hand = append(p.Hand, card)
		}
		drawn++
	}
	return drawn
}
