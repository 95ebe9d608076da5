package domain

// CardType classifies what a card does once played.
type CardType string

const (
	CardTypeCreature CardType = "creature"
	CardTypeSpell    CardType = "spell"
	CardTypeCounter  CardType = "counter"
	CardTypeBuff     CardType = "buff"
)

// Card is a single entry of the catalog. Cards are values; copies held in a
// hand or on a field never alias the catalog.
type Card struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Attack      int      `json:"attack"`
	Defense     int      `json:"defense"`
	Cost        int      `json:"cost"`
	Type        CardType `json:"type"`
	Ability     string   `json:"ability,omitempty"` // empty means no ability
}

// StarterCards returns the built-in card list, ids 1..10.
func StarterCards() []Card {
	return []Card{
		{ID: 1, Name: "Lightning Bolt", Description: "Deal 3 damage to any target", Attack: 3, Defense: 0, Cost: 1, Type: CardTypeSpell},
		{ID: 2, Name: "Shield Wall", Description: "Creature with 2/5 stats", Attack: 2, Defense: 5, Cost: 3, Type: CardTypeCreature},
		{ID: 3, Name: "Swift Strike", Description: "Fast creature 4/2", Attack: 4, Defense: 2, Cost: 3, Type: CardTypeCreature, Ability: "First Strike"},
		{ID: 4, Name: "Nullify", Description: "Counter target spell or ability", Attack: 0, Defense: 0, Cost: 2, Type: CardTypeCounter, Ability: "Instant"},
		{ID: 5, Name: "Power Surge", Description: "+3/+3 to target creature", Attack: 0, Defense: 0, Cost: 2, Type: CardTypeBuff},
		{ID: 6, Name: "Fire Elemental", Description: "Powerful creature 5/5", Attack: 5, Defense: 5, Cost: 5, Type: CardTypeCreature},
		{ID: 7, Name: "Mana Crystal", Description: "Gain 2 mana this turn", Attack: 0, Defense: 0, Cost: 0, Type: CardTypeSpell},
		{ID: 8, Name: "Dragon Whelp", Description: "Flying creature 3/3", Attack: 3, Defense: 3, Cost: 4, Type: CardTypeCreature, Ability: "Flying"},
		{ID: 9, Name: "Heal", Description: "Restore 5 health", Attack: 0, Defense: 0, Cost: 2, Type: CardTypeSpell},
		{ID: 10, Name: "Berserker", Description: "High attack creature 6/3", Attack: 6, Defense: 3, Cost: 4, Type: CardTypeCreature},
	}
}

// StarterDeck is the fixed card-id sequence every new match side starts with.
func StarterDeck() []int {
	deck := make([]int, 0, 10)
	for id := 1; id <= 10; id++ {
		deck = append(deck, id)
	}
	return deck
}
