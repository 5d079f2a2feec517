// Package screen runs a card table in a window with Ebitengine. It samples
// the mouse each tick, feeds the Manager, and draws every registered Layout
// with hover highlights, a tilting drag and short settle animations.
package screen

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/cardtable"
)

// Options configures a Game.
type Options struct {
	Width, Height int
	Title         string

	// TPS is the number of updates per second. Defaults to 60.
	TPS int

	// MaxTilt is the largest rotation of a dragged card, in radians.
	MaxTilt float64

	Theme Theme

	// Label returns the text printed on a face-up card. Defaults to the
	// card's name.
	Label func(*cardtable.Card) string

	// Red reports whether a card is drawn on the red face color.
	Red func(*cardtable.Card) bool

	// OnUpdate runs after the manager each tick. Returning an error stops
	// the game; return ebiten.Termination to quit cleanly.
	OnUpdate func() error

	// Status returns a line drawn at the bottom of the window.
	Status func() string

	// ShowFPS draws the actual FPS and TPS in the top-left corner.
	ShowFPS bool

	Logger *log.Logger
}

// Game is an ebiten.Game around a cardtable.Manager. It is also an
// EventSink: add it to the manager's sinks so released cards animate into
// place.
type Game struct {
	manager *cardtable.Manager
	opts    Options

	flights *Flights
	cards   *cardImages
	tilt    float64

	fpsText  string
	fpsTimer float64
}

// New creates a game for m.
func New(m *cardtable.Manager, opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme
	}
	if opts.Label == nil {
		opts.Label = func(c *cardtable.Card) string { return c.Name }
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Game{
		manager: m,
		opts:    opts,
		flights: NewFlights(),
		cards:   newCardImages(),
	}
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetTPS(g.opts.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.sampleMouse()

	dt := time.Second / time.Duration(g.opts.TPS)
	g.manager.Update(dt)
	g.flights.Update(float32(dt.Seconds()))
	g.tilt = stepTilt(g.tilt, g.manager.Velocity().X, g.opts.MaxTilt, g.manager.Dragging())

	if g.opts.ShowFPS {
		g.fpsTimer += dt.Seconds()
		if g.fpsTimer >= 0.5 {
			g.fpsTimer = 0
			g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		}
	}
	if g.opts.OnUpdate != nil {
		return g.opts.OnUpdate()
	}
	return nil
}

var mouseButtons = [...]struct {
	ebiten ebiten.MouseButton
	table  cardtable.MouseButton
}{
	{ebiten.MouseButtonLeft, cardtable.MouseButtonLeft},
	{ebiten.MouseButtonRight, cardtable.MouseButtonRight},
	{ebiten.MouseButtonMiddle, cardtable.MouseButtonMiddle},
}

func (g *Game) sampleMouse() {
	mx, my := ebiten.CursorPosition()
	pos := cardtable.Vec2{X: float64(mx), Y: float64(my)}
	g.manager.SetPointer(pos)
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			g.manager.ProcessEvent(cardtable.PointerEvent{Type: cardtable.PointerDown, Pos: pos, Button: b.table})
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			g.manager.ProcessEvent(cardtable.PointerEvent{Type: cardtable.PointerUp, Pos: pos, Button: b.table})
		}
	}
}

// Layout implements ebiten.Game. The table is drawn at a fixed logical
// size and scaled to the window.
func (g *Game) Layout(int, int) (int, int) {
	return g.opts.Width, g.opts.Height
}

// EmitEvent starts settle flights for cards that were just released.
func (g *Game) EmitEvent(ev cardtable.Event) {
	switch ev.Type {
	case cardtable.EventCardMoved:
		g.launch([]*cardtable.Card{ev.Card}, ev.Pointer)
	case cardtable.EventDragCancelled:
		g.launch(ev.Cards, ev.Pointer)
	case cardtable.EventDragStarted:
		for _, c := range ev.Cards {
			g.flights.Cancel(c)
		}
	}
}

// launch flies cards from where they hung under the pointer. A multi-card
// move sends one event per card, so the index is recovered from where the
// card sits relative to the first card of its run in the destination.
func (g *Game) launch(cards []*cardtable.Card, pointer cardtable.Vec2) {
	for i, c := range cards {
		loc, ok := locate(g.manager, c)
		if !ok {
			continue
		}
		idx := i
		if len(cards) == 1 {
			idx = g.heldIndex(c)
		}
		g.flights.Start(c, heldTopLeft(pointer, loc.layout.CardSize(), idx))
	}
}

// heldIndex guesses a single moved card's position in the payload it was
// part of, using the run of in-flight cards just below it.
func (g *Game) heldIndex(card *cardtable.Card) int {
	loc, ok := locate(g.manager, card)
	if !ok {
		return 0
	}
	cards := loc.layout.Cards()
	idx := 0
	for i := loc.index - 1; i >= 0; i-- {
		if _, flying := g.flights.Get(cards[i]); !flying {
			break
		}
		idx++
	}
	return idx
}

// heldStackStep is the vertical spacing of a held multi-card stack.
const heldStackStep = 24

// heldTopLeft is where the i-th held card is drawn: the stack hangs
// centered on the pointer.
func heldTopLeft(pointer, cardSize cardtable.Vec2, i int) cardtable.Vec2 {
	return cardtable.Vec2{
		X: pointer.X - cardSize.X/2,
		Y: pointer.Y - cardSize.Y/2 + float64(i)*heldStackStep,
	}
}

// stepTilt eases the drag tilt toward a target proportional to the
// horizontal pointer speed, and back to zero when nothing is held.
func stepTilt(current, vx, max float64, dragging bool) float64 {
	target := 0.0
	if dragging && max > 0 {
		target = math.Max(-max, math.Min(max, vx*0.02))
	}
	next := current + (target-current)*0.3
	if math.Abs(next) < 1e-4 {
		return 0
	}
	return next
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	th := g.opts.Theme
	screen.Fill(th.Table)

	target, _ := g.manager.DropTarget()
	_, hoverCard := g.manager.Hovered()

	for _, e := range g.manager.Entries() {
		layout, ok := e.Container.(cardtable.Layout)
		if !ok {
			continue
		}
		g.drawSlot(screen, e, e.Container == target)
		for _, p := range layout.Placements() {
			rect := p.Rect.Translate(e.Position)
			rot := p.Rotation
			if f, flying := g.flights.Get(p.Card); flying {
				pos := f.Position(cardtable.Vec2{X: rect.X, Y: rect.Y})
				rect.X, rect.Y = pos.X, pos.Y
				rot *= f.Progress()
			}
			g.drawCard(screen, p.Card, rect, rot, p.FaceDown)
		}
		if e.Policy.HighlightHovered && !g.manager.Dragging() {
			if p, ok := cardtable.HoveredPlacement(layout, hoverCard); ok {
				g.drawHover(screen, p, e.Position)
			}
		}
		if n, ok := e.Container.(cardtable.Namer); ok {
			ebitenutil.DebugPrintAt(screen, n.Name(), int(e.Position.X), int(e.Position.Y)-16)
		}
	}

	if g.manager.Dragging() {
		size := cardtable.Vec2{X: 80, Y: 112}
		if l, ok := g.manager.DetachSource().(cardtable.Layout); ok {
			size = l.CardSize()
		}
		for i, c := range g.manager.Detached() {
			tl := heldTopLeft(g.manager.Pointer(), size, i)
			g.drawCard(screen, c, cardtable.RectAt(tl, size), g.tilt, false)
		}
	}

	if g.opts.Status != nil {
		ebitenutil.DebugPrintAt(screen, g.opts.Status(), 8, g.opts.Height-20)
	}
	if g.opts.ShowFPS {
		ebitenutil.DebugPrint(screen, g.fpsText)
	}
}

// location is where a card currently rests.
type location struct {
	layout cardtable.Layout
	index  int
}

// locate finds the registered layout that holds card.
func locate(m *cardtable.Manager, card *cardtable.Card) (location, bool) {
	for _, e := range m.Entries() {
		layout, ok := e.Container.(cardtable.Layout)
		if !ok {
			continue
		}
		for i, c := range layout.Cards() {
			if c == card {
				return location{layout: layout, index: i}, true
			}
		}
	}
	return location{}, false
}
