package domain

import "sort"

// Catalog is the immutable card table shared by every match.
type Catalog struct {
	byID  map[int]Card
	order []int
}

// NewCatalog builds a catalog from cards. Later duplicates of an id are ignored.
func NewCatalog(cards []Card) *Catalog {
	c := &Catalog{byID: make(map[int]Card, len(cards))}
	for _, card := range cards {
		if _, exists := c.byID[card.ID]; exists {
			continue
		}
		c.byID[card.ID] = card
		c.order = append(c.order, card.ID)
	}
	sort.Ints(c.order)
	return c
}

// StarterCatalog returns the catalog populated with the built-in cards.
func StarterCatalog() *Catalog {
	return NewCatalog(StarterCards())
}

// Lookup returns the card with the given id. ok is false for unknown ids.
func (c *Catalog) Lookup(id int) (Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// List returns every card ordered by id.
func (c *Catalog) List() []Card {
	out := make([]Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
