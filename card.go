package cardtable

import "fmt"

// CardID uniquely identifies a Card within the IDAllocator that created it.
type CardID uint64

// Card is a single card on the table. Two cards are the same card only if
// they are the same pointer; cards with identical names (two copies of the
// ace of spades) stay distinct. Cards are moved between containers and never
// copied.
type Card struct {
	id CardID

	// Name is the display name of the card.
	Name string

	// Value carries game-specific data (suit and rank, a minion's stats).
	// The manager never looks at it.
	Value any
}

// ID returns the card's unique identifier.
func (c *Card) ID() CardID {
	return c.id
}

func (c *Card) String() string {
	if c == nil {
		return "Card(<nil>)"
	}
	return fmt.Sprintf("Card(%s#%d)", c.Name, c.id)
}

// IDAllocator hands out identifiers for cards and card sets. Each game (or
// test) owns its allocator, so id sequences are reproducible and nothing is
// shared between sessions. An IDAllocator is not safe for concurrent use.
type IDAllocator struct {
	next uint64
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh identifier.
func (a *IDAllocator) Next() uint64 {
	a.next++
	return a.next
}

// NewCard creates a card with a fresh identity.
func (a *IDAllocator) NewCard(name string, value any) *Card {
	return &Card{id: CardID(a.Next()), Name: name, Value: value}
}

// NewCards creates one card per name, in order.
func (a *IDAllocator) NewCards(names ...string) []*Card {
	cards := make([]*Card, len(names))
	for i, name := range names {
		cards[i] = a.NewCard(name, nil)
	}
	return cards
}
