package cardtable

// Container is anything that holds an ordered run of cards on screen. The
// manager only talks to containers through this interface and never knows
// which layout a container uses.
//
// CardAt must agree with the container's rendering: a point on a visibly
// drawn card resolves to that card. Mutating methods invalidate any cached
// layout the container keeps.
type Container interface {
	// Size returns the current size in local pixels. It may change over time.
	Size() Vec2

	// CardAt returns the topmost card whose hit area contains local, or nil.
	CardAt(local Vec2) *Card

	// Cards returns the cards in order, bottom first.
	Cards() []*Card

	Remove(card *Card) bool
	RemoveAt(i int) *Card
	Append(card *Card)
	Extend(cards []*Card)
}

// StackPicker is implemented by containers that support multi-card drag.
// CardsAt returns the hit card and every card stacked after it, in order,
// or nil when no card is hit.
type StackPicker interface {
	CardsAt(local Vec2) []*Card
}

// Namer is implemented by containers that have a display name. Journals and
// debug logs use it; unnamed containers are shown by type.
type Namer interface {
	Name() string
}

// Placement is where a container draws one of its cards, in local pixels.
// Rect is the unrotated card rectangle; renderers rotate it by Rotation
// (radians, clockwise) around its center.
type Placement struct {
	Card     *Card
	Rect     Rect
	Rotation float64
	FaceDown bool
}

// Layout is a Container that can report where each card is drawn.
// All built-in layouts implement it.
type Layout interface {
	Container
	Placements() []Placement
	CardSize() Vec2
}

// layoutBase carries the state every built-in layout shares: the card set,
// the outer size, the card size and the cached placements.
type layoutBase struct {
	name     string
	set      *CardSet
	size     Vec2
	cardSize Vec2

	placements []Placement
	dirty      bool
}

func newLayoutBase(name string, set *CardSet, size, cardSize Vec2) layoutBase {
	if set == nil {
		set = NewCardSet()
	}
	return layoutBase{name: name, set: set, size: size, cardSize: cardSize, dirty: true}
}

// Name returns the layout's display name.
func (b *layoutBase) Name() string { return b.name }

// Set returns the underlying card set. Mutating it directly requires a call
// to Invalidate afterwards.
func (b *layoutBase) Set() *CardSet { return b.set }

// Size returns the layout's outer size.
func (b *layoutBase) Size() Vec2 { return b.size }

// SetSize changes the outer size and invalidates the layout.
func (b *layoutBase) SetSize(size Vec2) {
	if size == b.size {
		return
	}
	b.size = size
	b.Invalidate()
}

// CardSize returns the size cards are drawn at.
func (b *layoutBase) CardSize() Vec2 { return b.cardSize }

// SetCardSize changes the card size and invalidates the layout.
func (b *layoutBase) SetCardSize(size Vec2) {
	if size == b.cardSize {
		return
	}
	b.cardSize = size
	b.Invalidate()
}

// Invalidate drops the cached placements.
func (b *layoutBase) Invalidate() { b.dirty = true }

// Cards returns the cards in order.
func (b *layoutBase) Cards() []*Card { return b.set.Cards() }

// Len returns the number of cards held.
func (b *layoutBase) Len() int { return b.set.Len() }

// Remove removes card and reports whether it was held.
func (b *layoutBase) Remove(card *Card) bool {
	if !b.set.Remove(card) {
		return false
	}
	b.Invalidate()
	return true
}

// RemoveAt removes and returns the card at index i.
func (b *layoutBase) RemoveAt(i int) *Card {
	c := b.set.RemoveAt(i)
	b.Invalidate()
	return c
}

// Append adds card on top.
func (b *layoutBase) Append(card *Card) {
	b.set.Append(card)
	b.Invalidate()
}

// Extend adds cards on top in order.
func (b *layoutBase) Extend(cards []*Card) {
	b.set.Extend(cards)
	b.Invalidate()
}

// cached returns the cached placements, recomputing them with compute when
// the layout is dirty.
func (b *layoutBase) cached(compute func() []Placement) []Placement {
	if b.dirty {
		b.placements = compute()
		b.dirty = false
	}
	return b.placements
}

// topmostRect returns the last placement whose rect contains local. Later
// placements are drawn over earlier ones.
func topmostRect(placements []Placement, local Vec2) int {
	for i := len(placements) - 1; i >= 0; i-- {
		if placements[i].Rect.ContainsPoint(local) {
			return i
		}
	}
	return -1
}

// tailFrom returns a copy of cards[i:].
func tailFrom(cards []*Card, i int) []*Card {
	if i < 0 || i >= len(cards) {
		return nil
	}
	out := make([]*Card, len(cards)-i)
	copy(out, cards[i:])
	return out
}

// HoveredPlacement returns the placement of card in l, for drawing a hover
// highlight.
func HoveredPlacement(l Layout, card *Card) (Placement, bool) {
	if card == nil {
		return Placement{}, false
	}
	for _, p := range l.Placements() {
		if p.Card == card {
			return p, true
		}
	}
	return Placement{}, false
}
