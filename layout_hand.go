package cardtable

import "math"

// Overlap selects which side of a hand later cards are placed on.
type Overlap uint8

const (
	OverlapRight Overlap = iota // cards run left to right, later cards on top
	OverlapLeft                 // cards run right to left, later cards on top
)

const (
	defaultHandOffset = 20.0
	defaultArcAngle   = 90.0
)

// AlignedHand shows its cards in a horizontal row, vertically centered.
// When the row is wider than the hand the spacing shrinks (and may go
// negative) so every card still fits.
type AlignedHand struct {
	layoutBase
	offset  float64
	overlap Overlap
}

// NewAlignedHand creates a row layout over set. A nil set starts empty.
func NewAlignedHand(name string, set *CardSet, size, cardSize Vec2) *AlignedHand {
	return &AlignedHand{
		layoutBase: newLayoutBase(name, set, size, cardSize),
		offset:     defaultHandOffset,
	}
}

// SetOffset sets the gap between neighbouring cards. Negative values make
// cards overlap.
func (h *AlignedHand) SetOffset(offset float64) {
	h.offset = offset
	h.Invalidate()
}

// SetOverlap sets the direction the row runs in.
func (h *AlignedHand) SetOverlap(o Overlap) {
	h.overlap = o
	h.Invalidate()
}

// Placements returns where each card is drawn, in card order.
func (h *AlignedHand) Placements() []Placement {
	return h.cached(func() []Placement {
		return alignedPlacements(h.set.cards, h.size, h.cardSize, h.offset, h.overlap)
	})
}

// CardAt returns the topmost card under local.
func (h *AlignedHand) CardAt(local Vec2) *Card {
	if !RectAt(Vec2{}, h.size).ContainsPoint(local) {
		return nil
	}
	p := h.Placements()
	if i := topmostRect(p, local); i >= 0 {
		return p[i].Card
	}
	return nil
}

func alignedPlacements(cards []*Card, size, cardSize Vec2, offset float64, overlap Overlap) []Placement {
	n := len(cards)
	if n == 0 {
		return nil
	}
	total := float64(n)*cardSize.X + float64(n-1)*offset
	if n > 1 && total > size.X {
		offset = (size.X - float64(n)*cardSize.X) / float64(n-1)
	}
	y := size.Y/2 - cardSize.Y/2
	out := make([]Placement, n)
	for i, c := range cards {
		x := float64(i) * (cardSize.X + offset)
		if overlap == OverlapLeft {
			x = size.X - cardSize.X - x
		}
		out[i] = Placement{Card: c, Rect: Rect{X: x, Y: y, Width: cardSize.X, Height: cardSize.Y}}
	}
	return out
}

// ArcHand fans its cards along an arc of a circle whose center lies below
// the hand, like cards held in a hand. The middle card touches the top edge.
type ArcHand struct {
	layoutBase
	angle float64
}

// NewArcHand creates a fanned layout spanning 90 degrees.
func NewArcHand(name string, set *CardSet, size, cardSize Vec2) *ArcHand {
	return &ArcHand{
		layoutBase: newLayoutBase(name, set, size, cardSize),
		angle:      defaultArcAngle,
	}
}

// SetAngle sets the total fan angle in degrees. Zero lays the cards out in
// a straight row.
func (h *ArcHand) SetAngle(degrees float64) {
	h.angle = degrees
	h.Invalidate()
}

// Angle returns the fan angle in degrees.
func (h *ArcHand) Angle() float64 { return h.angle }

// Placements returns where each card is drawn, in card order. Rect is the
// unrotated card centered on its arc position.
func (h *ArcHand) Placements() []Placement {
	return h.cached(h.computeArc)
}

func (h *ArcHand) computeArc() []Placement {
	cards := h.set.cards
	n := len(cards)
	if n == 0 {
		return nil
	}
	span := h.angle * math.Pi / 180
	if n == 1 || span == 0 {
		return alignedPlacements(cards, h.size, h.cardSize, 0, OverlapRight)
	}

	cw, ch := h.cardSize.X, h.cardSize.Y
	diag := math.Hypot(cw, ch)
	half := span / 2
	radius := math.Min(
		(h.size.X-diag)/2/math.Sin(half),
		(h.size.Y-ch-diag/2)/(1-math.Cos(half)),
	)
	if radius < ch {
		radius = ch
	}
	center := Vec2{h.size.X / 2, ch/2 + radius}
	step := span / float64(n-1)

	out := make([]Placement, n)
	for i, c := range cards {
		a := -half + float64(i)*step
		cc := Vec2{center.X + radius*math.Sin(a), center.Y - radius*math.Cos(a)}
		out[i] = Placement{
			Card:     c,
			Rect:     Rect{X: cc.X - cw/2, Y: cc.Y - ch/2, Width: cw, Height: ch},
			Rotation: a,
		}
	}
	return out
}

// CardAt returns the topmost card whose rotated rectangle contains local.
func (h *ArcHand) CardAt(local Vec2) *Card {
	if !RectAt(Vec2{}, h.size).ContainsPoint(local) {
		return nil
	}
	p := h.Placements()
	for i := len(p) - 1; i >= 0; i-- {
		if rotatedContains(p[i], local) {
			return p[i].Card
		}
	}
	return nil
}

// rotatedContains reports whether pt lies in the placement's rectangle
// after rotating it by Rotation around its center.
func rotatedContains(p Placement, pt Vec2) bool {
	d := pt.Sub(p.Rect.Center())
	sin, cos := math.Sincos(p.Rotation)
	lx := d.X*cos + d.Y*sin
	ly := -d.X*sin + d.Y*cos
	return math.Abs(lx) <= p.Rect.Width/2 && math.Abs(ly) <= p.Rect.Height/2
}
