// Package classic provides the French-suited playing cards used by most
// card games: four suits, ranks two to ace, and the 52 and 36 card packs.
package classic

import (
	"fmt"

	"github.com/phanxgames/cardtable"
)

// Suit is one of the four French suits.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in pack order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Red reports whether the suit is hearts or diamonds.
func (s Suit) Red() bool { return s == Hearts || s == Diamonds }

// Rank is a card rank. Numbered ranks hold their face value; the ace ranks
// lowest (1) so that it starts foundations.
type Rank uint8

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprint(uint8(r))
	}
}

// Face is the Value of every card created by this package.
type Face struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (f Face) String() string {
	return fmt.Sprintf("%s of %s", f.Rank, f.Suit)
}

// FaceOf returns the face of a card created by this package.
func FaceOf(c *cardtable.Card) (Face, bool) {
	if c == nil {
		return Face{}, false
	}
	f, ok := c.Value.(Face)
	return f, ok
}

// IsOneBelow reports whether a ranks exactly one below b.
func IsOneBelow(a, b Face) bool {
	return a.Rank+1 == b.Rank
}

// OppositeColor reports whether a and b are of different colors.
func OppositeColor(a, b Face) bool {
	return a.Suit.Red() != b.Suit.Red()
}

// NewCard creates a single classic card.
func NewCard(ids *cardtable.IDAllocator, suit Suit, rank Rank) *cardtable.Card {
	f := Face{Suit: suit, Rank: rank}
	return ids.NewCard(f.String(), f)
}

func newPack(ids *cardtable.IDAllocator, lowest Rank) *cardtable.CardSet {
	set := cardtable.NewCardSet()
	for _, s := range Suits {
		for r := lowest; r <= King; r++ {
			set.Append(NewCard(ids, s, r))
		}
		set.Append(NewCard(ids, s, Ace))
	}
	return set
}

// NewDeck52 returns a full pack, suit by suit, two to king then ace.
func NewDeck52(ids *cardtable.IDAllocator) *cardtable.CardSet {
	return newPack(ids, 2)
}

// NewDeck36 returns a piquet-style pack of sixes and up plus aces.
func NewDeck36(ids *cardtable.IDAllocator) *cardtable.CardSet {
	return newPack(ids, 6)
}
