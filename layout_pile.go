package cardtable

// Direction is the axis a Pile grows along.
type Direction uint8

const (
	Vertical   Direction = iota // cards step downward
	Horizontal                  // cards step rightward
)

const defaultPileOffset = 30.0

// Pile stacks cards with a fixed step along one axis, squeezing the step
// when the pile would overflow its size. The first Hidden cards are drawn
// face down. Pile implements StackPicker, so it can be used as a tableau
// column with multi-card drag.
type Pile struct {
	layoutBase
	direction Direction
	offset    float64
	hidden    int
}

// NewPile creates a pile growing in direction d.
func NewPile(name string, set *CardSet, d Direction, size, cardSize Vec2) *Pile {
	return &Pile{
		layoutBase: newLayoutBase(name, set, size, cardSize),
		direction:  d,
		offset:     defaultPileOffset,
	}
}

// SetOffset sets the step between consecutive cards.
func (p *Pile) SetOffset(offset float64) {
	p.offset = offset
	p.Invalidate()
}

// SetHidden sets how many cards from the bottom are face down.
func (p *Pile) SetHidden(n int) {
	p.hidden = max(n, 0)
	p.Invalidate()
}

// Hidden returns how many cards are face down.
func (p *Pile) Hidden() int { return min(p.hidden, p.set.Len()) }

// IsHidden reports whether card is one of the face-down cards.
func (p *Pile) IsHidden(card *Card) bool {
	i := p.set.Index(card)
	return i >= 0 && i < p.Hidden()
}

// TurnTop turns the top card face up when every card is face down.
// It reports whether a card was turned.
func (p *Pile) TurnTop() bool {
	n := p.set.Len()
	if n == 0 || p.Hidden() < n {
		return false
	}
	p.hidden = n - 1
	p.Invalidate()
	return true
}

// Placements returns where each card is drawn, bottom card first.
func (p *Pile) Placements() []Placement {
	return p.cached(p.computePile)
}

func (p *Pile) computePile() []Placement {
	cards := p.set.cards
	n := len(cards)
	if n == 0 {
		return nil
	}
	along, cardAlong := p.size.Y, p.cardSize.Y
	if p.direction == Horizontal {
		along, cardAlong = p.size.X, p.cardSize.X
	}
	step := p.offset
	if n > 1 && float64(n-1)*step+cardAlong > along {
		step = max((along-cardAlong)/float64(n-1), 0)
	}
	hidden := p.Hidden()

	out := make([]Placement, n)
	for i, c := range cards {
		r := Rect{Width: p.cardSize.X, Height: p.cardSize.Y}
		if p.direction == Vertical {
			r.X = (p.size.X - p.cardSize.X) / 2
			r.Y = float64(i) * step
		} else {
			r.X = float64(i) * step
			r.Y = (p.size.Y - p.cardSize.Y) / 2
		}
		out[i] = Placement{Card: c, Rect: r, FaceDown: i < hidden}
	}
	return out
}

// CardAt returns the topmost card under local.
func (p *Pile) CardAt(local Vec2) *Card {
	if i := p.indexAt(local); i >= 0 {
		return p.set.At(i)
	}
	return nil
}

// CardsAt returns the card under local and every card above it.
func (p *Pile) CardsAt(local Vec2) []*Card {
	return tailFrom(p.set.cards, p.indexAt(local))
}

func (p *Pile) indexAt(local Vec2) int {
	if !RectAt(Vec2{}, p.size).ContainsPoint(local) {
		return -1
	}
	return topmostRect(p.Placements(), local)
}

// Deck draws its cards as a squared-up stack of backs climbing from the
// bottom-left to the top-right corner. Any point on the deck hits the top
// card. With FaceUpTop set the top card is drawn face up, which suits
// foundations and discard piles.
type Deck struct {
	layoutBase
	maxCards  int
	faceUpTop bool
}

// NewDeck creates a deck layout. The stack is scaled for the number of
// cards the set holds now; use SetMaxCards for decks that start empty.
func NewDeck(name string, set *CardSet, size, cardSize Vec2) *Deck {
	d := &Deck{layoutBase: newLayoutBase(name, set, size, cardSize)}
	d.maxCards = d.set.Len()
	return d
}

// SetMaxCards sets how many cards a full deck holds, which fixes the height
// of the drawn stack.
func (d *Deck) SetMaxCards(n int) {
	d.maxCards = n
	d.Invalidate()
}

// SetFaceUpTop sets whether the top card is shown face up.
func (d *Deck) SetFaceUpTop(b bool) {
	d.faceUpTop = b
	d.Invalidate()
}

// Placements returns where each card is drawn, bottom card first.
func (d *Deck) Placements() []Placement {
	return d.cached(d.computeDeck)
}

func (d *Deck) computeDeck() []Placement {
	cards := d.set.cards
	n := len(cards)
	if n == 0 {
		return nil
	}
	slots := max(d.maxCards, n)
	from := Vec2{0, d.size.Y - d.cardSize.Y}
	to := Vec2{d.size.X - d.cardSize.X, 0}

	out := make([]Placement, n)
	for i, c := range cards {
		t := 0.0
		if slots > 1 {
			t = float64(i) / float64(slots-1)
		}
		pos := from.Add(to.Sub(from).Scale(t))
		out[i] = Placement{
			Card:     c,
			Rect:     RectAt(pos, d.cardSize),
			FaceDown: !(d.faceUpTop && i == n-1),
		}
	}
	return out
}

// CardAt returns the top card when local lies on the deck.
func (d *Deck) CardAt(local Vec2) *Card {
	if !RectAt(Vec2{}, d.size).ContainsPoint(local) {
		return nil
	}
	return d.set.Top()
}
