package screen

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/cardtable"
)

type faceKey struct {
	card *cardtable.Card
	w, h int
}

// cardImages caches rendered card faces and backs. Faces are drawn once per
// card and size, backs once per size.
type cardImages struct {
	faces map[faceKey]*ebiten.Image
	backs map[[2]int]*ebiten.Image
}

func newCardImages() *cardImages {
	return &cardImages{
		faces: make(map[faceKey]*ebiten.Image),
		backs: make(map[[2]int]*ebiten.Image),
	}
}

func (g *Game) face(card *cardtable.Card, w, h int) *ebiten.Image {
	key := faceKey{card, w, h}
	if img, ok := g.cards.faces[key]; ok {
		return img
	}
	th := g.opts.Theme
	bg := th.Face
	if g.opts.Red != nil && g.opts.Red(card) {
		bg = th.FaceRed
	}
	img := ebiten.NewImage(w, h)
	vector.DrawFilledRect(img, 0, 0, float32(w), float32(h), bg, true)
	vector.StrokeRect(img, 0.5, 0.5, float32(w)-1, float32(h)-1, 1, th.Border, true)
	ebitenutil.DebugPrintAt(img, g.opts.Label(card), 4, 2)
	g.cards.faces[key] = img
	return img
}

func (g *Game) back(w, h int) *ebiten.Image {
	key := [2]int{w, h}
	if img, ok := g.cards.backs[key]; ok {
		return img
	}
	th := g.opts.Theme
	img := ebiten.NewImage(w, h)
	vector.DrawFilledRect(img, 0, 0, float32(w), float32(h), th.Back, true)
	vector.StrokeRect(img, 4, 4, float32(w)-8, float32(h)-8, 1, th.Face, true)
	vector.StrokeRect(img, 0.5, 0.5, float32(w)-1, float32(h)-1, 1, th.Border, true)
	g.cards.backs[key] = img
	return img
}

func (g *Game) drawSlot(dst *ebiten.Image, e cardtable.Entry, target bool) {
	b := e.Bounds()
	clr := g.opts.Theme.Slot
	if target {
		clr = g.opts.Theme.SlotTarget
	}
	vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 2, clr, true)
}

// drawCard draws a card into rect, rotated by rot radians around its center.
func (g *Game) drawCard(dst *ebiten.Image, card *cardtable.Card, rect cardtable.Rect, rot float64, faceDown bool) {
	w, h := int(rect.Width), int(rect.Height)
	if w <= 0 || h <= 0 {
		return
	}
	img := g.back(w, h)
	if !faceDown {
		img = g.face(card, w, h)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-rect.Width/2, -rect.Height/2)
	op.GeoM.Rotate(rot)
	c := rect.Center()
	op.GeoM.Translate(c.X, c.Y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// drawHover outlines a resting, upright card.
func (g *Game) drawHover(dst *ebiten.Image, p cardtable.Placement, origin cardtable.Vec2) {
	if p.Rotation != 0 {
		return
	}
	if _, flying := g.flights.Get(p.Card); flying {
		return
	}
	r := p.Rect.Translate(origin)
	vector.StrokeRect(dst, float32(r.X)-2, float32(r.Y)-2, float32(r.Width)+4, float32(r.Height)+4, 3, g.opts.Theme.Hover, true)
}
