package cardtable

import (
	"fmt"
	"math/rand"
	"slices"
)

// CardSet is an ordered collection of cards. Index 0 is the bottom of a pile
// (or the left of a hand); the last card is on top. A CardSet holds
// references: moving a card from one set to another never copies it.
type CardSet struct {
	cards []*Card
}

// NewCardSet returns a set holding cards in the given order.
func NewCardSet(cards ...*Card) *CardSet {
	return &CardSet{cards: slices.Clone(cards)}
}

// JoinSets concatenates sets into a new set. The inputs are not modified.
func JoinSets(sets ...*CardSet) *CardSet {
	out := &CardSet{}
	for _, s := range sets {
		out.cards = append(out.cards, s.cards...)
	}
	return out
}

// Len returns the number of cards in the set.
func (s *CardSet) Len() int { return len(s.cards) }

// At returns the card at index i.
func (s *CardSet) At(i int) *Card { return s.cards[i] }

// Top returns the last card, or nil when the set is empty.
func (s *CardSet) Top() *Card {
	if len(s.cards) == 0 {
		return nil
	}
	return s.cards[len(s.cards)-1]
}

// Cards returns a copy of the cards in order.
func (s *CardSet) Cards() []*Card { return slices.Clone(s.cards) }

// Index returns the position of card in the set, or -1.
func (s *CardSet) Index(card *Card) int { return slices.Index(s.cards, card) }

// Contains reports whether card is a member of the set.
func (s *CardSet) Contains(card *Card) bool { return s.Index(card) >= 0 }

// Append adds card on top of the set.
func (s *CardSet) Append(card *Card) { s.cards = append(s.cards, card) }

// Extend adds cards on top of the set, preserving their order.
func (s *CardSet) Extend(cards []*Card) { s.cards = append(s.cards, cards...) }

// Remove removes card from the set. It reports whether the card was present.
func (s *CardSet) Remove(card *Card) bool {
	i := s.Index(card)
	if i < 0 {
		return false
	}
	s.RemoveAt(i)
	return true
}

// RemoveAt removes and returns the card at index i.
func (s *CardSet) RemoveAt(i int) *Card {
	card := s.cards[i]
	s.cards = slices.Delete(s.cards, i, i+1)
	return card
}

// RemoveAll empties the set and returns its former cards as a new set.
func (s *CardSet) RemoveAll() *CardSet {
	out := &CardSet{cards: s.cards}
	s.cards = nil
	return out
}

// FindByName returns the first card with the given name, or nil.
func (s *CardSet) FindByName(name string) *Card {
	for _, c := range s.cards {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CountByName returns how many cards in the set are named name.
func (s *CardSet) CountByName(name string) int {
	n := 0
	for _, c := range s.cards {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Shuffle randomizes the order of the set. A nil rng uses the global source.
func (s *CardSet) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) { s.cards[i], s.cards[j] = s.cards[j], s.cards[i] }
	if rng == nil {
		rand.Shuffle(len(s.cards), swap)
		return
	}
	rng.Shuffle(len(s.cards), swap)
}

// Draw removes the first n cards and returns them as a new set.
// n == -1 draws every card.
func (s *CardSet) Draw(n int) (*CardSet, error) {
	if n == -1 {
		n = len(s.cards)
	}
	if n < 0 || n > len(s.cards) {
		return nil, fmt.Errorf("draw %d from %d cards: %w", n, len(s.cards), ErrNotEnoughCards)
	}
	out := &CardSet{cards: slices.Clone(s.cards[:n])}
	s.cards = slices.Delete(s.cards, 0, n)
	return out, nil
}

// DistributeOptions controls Distribute and DistributeTo.
type DistributeOptions struct {
	// Cards is the number of cards each set receives. Zero hands out as many
	// as can be dealt evenly.
	Cards int

	// Shuffle, when non-nil, shuffles the source with this rng first.
	Shuffle *rand.Rand

	// Unequal deals the leftover cards one by one to the first sets when
	// Cards is zero. Otherwise the leftovers stay in the source.
	Unequal bool

	// AtATime is how many cards DistributeTo deals to a set per turn.
	// Zero means one.
	AtATime int
}

func (s *CardSet) cardsPerSet(nSets, nCards int) (int, error) {
	if nSets <= 0 {
		return 0, fmt.Errorf("distribute to %d sets: need at least one", nSets)
	}
	per := len(s.cards) / nSets
	if nCards > 0 {
		if nCards > per {
			return 0, fmt.Errorf("distribute %d cards to %d sets from %d cards: %w",
				nCards, nSets, len(s.cards), ErrNotEnoughCards)
		}
		per = nCards
	}
	return per, nil
}

// Distribute deals the set into nSets new sets. Dealt cards are removed from s.
func (s *CardSet) Distribute(nSets int, opts DistributeOptions) ([]*CardSet, error) {
	if opts.Shuffle != nil {
		s.Shuffle(opts.Shuffle)
	}
	per, err := s.cardsPerSet(nSets, opts.Cards)
	if err != nil {
		return nil, err
	}
	dist := make([]*CardSet, nSets)
	for i := range dist {
		// cardsPerSet guarantees enough cards.
		dist[i], _ = s.Draw(per)
	}
	if opts.Unequal && opts.Cards == 0 {
		for i := 0; len(s.cards) > 0 && i < nSets; i++ {
			dist[i].Append(s.RemoveAt(0))
		}
	}
	return dist, nil
}

// DistributeTo deals cards from the top of s (index 0) round-robin into the
// given sets, AtATime cards per turn, the way a dealer works a packet.
func (s *CardSet) DistributeTo(sets []*CardSet, opts DistributeOptions) error {
	if opts.Shuffle != nil {
		s.Shuffle(opts.Shuffle)
	}
	per, err := s.cardsPerSet(len(sets), opts.Cards)
	if err != nil {
		return err
	}
	atATime := max(opts.AtATime, 1)

	turn := 0
	rounds := per * len(sets) / atATime
	for range rounds {
		dealt, _ := s.Draw(atATime)
		sets[turn%len(sets)].Extend(dealt.cards)
		turn++
	}
	if opts.Unequal && opts.Cards == 0 {
		for len(s.cards) > 0 {
			sets[turn%len(sets)].Append(s.RemoveAt(0))
			turn++
		}
	}
	return nil
}
