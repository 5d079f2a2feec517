// Package tui hosts a card table in a terminal with tcell. The same Manager
// that drives the graphical host runs here: terminal mouse reports are
// turned into pointer events, and each container is drawn as boxed cards on
// the cell grid.
package tui

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/cardtable"
)

// Options configures a Host.
type Options struct {
	// CellSize is the size of one terminal cell in table pixels.
	// Defaults to 8x16.
	CellSize cardtable.Vec2

	// Label returns the text drawn on a face-up card. Defaults to the
	// card's name.
	Label func(*cardtable.Card) string

	// OnKey is called for key presses the host does not handle itself.
	OnKey func(*tcell.EventKey)

	// OnTick runs after each manager update in Run, on the same goroutine.
	OnTick func()

	// Status returns a line drawn on the bottom row.
	Status func() string

	Logger *log.Logger
}

// Host draws a Manager's containers to a tcell screen and feeds it mouse
// input. A Host is not safe for concurrent use; Run keeps every call on one
// goroutine.
type Host struct {
	screen  tcell.Screen
	manager *cardtable.Manager
	opts    Options

	buttons tcell.ButtonMask

	styleCard   tcell.Style
	styleBack   tcell.Style
	styleHover  tcell.Style
	styleTarget tcell.Style
	styleLabel  tcell.Style
}

// NewHost creates a host. The screen must already be initialized.
func NewHost(screen tcell.Screen, m *cardtable.Manager, opts Options) *Host {
	if opts.CellSize == (cardtable.Vec2{}) {
		opts.CellSize = cardtable.Vec2{X: 8, Y: 16}
	}
	if opts.Label == nil {
		opts.Label = func(c *cardtable.Card) string { return c.Name }
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	return &Host{
		screen:      screen,
		manager:     m,
		opts:        opts,
		styleCard:   tcell.StyleDefault.Foreground(tcell.ColorWhite),
		styleBack:   tcell.StyleDefault.Foreground(tcell.ColorSteelBlue),
		styleHover:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		styleTarget: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
		styleLabel:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
}

// ToTable converts a cell position to the table pixel at the cell's center.
func (h *Host) ToTable(x, y int) cardtable.Vec2 {
	cs := h.opts.CellSize
	return cardtable.Vec2{X: (float64(x) + 0.5) * cs.X, Y: (float64(y) + 0.5) * cs.Y}
}

// ToCell converts a table pixel position to a cell position.
func (h *Host) ToCell(p cardtable.Vec2) (int, int) {
	cs := h.opts.CellSize
	return int(math.Floor(p.X / cs.X)), int(math.Floor(p.Y / cs.Y))
}

// HandleEvent feeds one tcell event to the manager. It returns false when
// the user asked to quit (Escape or Ctrl-C).
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if h.opts.OnKey != nil {
			h.opts.OnKey(ev)
		}
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

var buttonMap = []struct {
	mask   tcell.ButtonMask
	button cardtable.MouseButton
}{
	{tcell.ButtonPrimary, cardtable.MouseButtonLeft},
	{tcell.ButtonSecondary, cardtable.MouseButtonRight},
	{tcell.ButtonMiddle, cardtable.MouseButtonMiddle},
}

// handleMouse turns tcell's button state reports into press, release and
// move events.
func (h *Host) handleMouse(ev *tcell.EventMouse) {
	pos := h.ToTable(ev.Position())
	now := ev.Buttons()
	changed := false
	for _, b := range buttonMap {
		was, is := h.buttons&b.mask != 0, now&b.mask != 0
		switch {
		case is && !was:
			h.manager.ProcessEvent(cardtable.PointerEvent{Type: cardtable.PointerDown, Pos: pos, Button: b.button})
			changed = true
		case was && !is:
			h.manager.ProcessEvent(cardtable.PointerEvent{Type: cardtable.PointerUp, Pos: pos, Button: b.button})
			changed = true
		}
	}
	h.buttons = now
	if !changed {
		h.manager.ProcessEvent(cardtable.PointerEvent{Type: cardtable.PointerMove, Pos: pos})
	}
}

// Draw renders every container and the dragged cards, then shows the screen.
func (h *Host) Draw() {
	h.screen.Clear()
	hoverC, hoverCard := h.manager.Hovered()
	target, _ := h.manager.DropTarget()

	for _, e := range h.manager.Entries() {
		l, ok := e.Container.(cardtable.Layout)
		if !ok {
			continue
		}
		if n, ok := e.Container.(cardtable.Namer); ok {
			x, y := h.ToCell(e.Position)
			h.drawText(x, y-1, n.Name(), h.styleLabel)
		}
		frame := h.styleLabel
		if e.Container == target {
			frame = h.styleTarget
		}
		h.drawFrame(e.Bounds(), frame)

		for _, p := range l.Placements() {
			h.drawCard(p.Rect.Translate(e.Position), p, h.styleCard)
		}
		if e.Policy.HighlightHovered && e.Container == hoverC {
			if p, ok := cardtable.HoveredPlacement(l, hoverCard); ok {
				h.highlight(p.Rect.Translate(e.Position))
			}
		}
	}

	h.drawDragged()
	if h.opts.Status != nil {
		_, rows := h.screen.Size()
		h.drawText(0, rows-1, h.opts.Status(), h.styleLabel)
	}
	h.screen.Show()
}

func (h *Host) drawDragged() {
	cards := h.manager.Detached()
	if len(cards) == 0 {
		return
	}
	src, ok := h.manager.DetachSource().(cardtable.Layout)
	if !ok {
		return
	}
	size := src.CardSize()
	pos := h.manager.Pointer().Sub(size.Scale(0.5))
	for i, c := range cards {
		r := cardtable.RectAt(pos.Add(cardtable.Vec2{Y: float64(i) * h.opts.CellSize.Y}), size)
		h.drawCard(r, cardtable.Placement{Card: c}, h.styleHover)
	}
}

// drawCard draws a boxed card covering r (table pixels).
func (h *Host) drawCard(r cardtable.Rect, p cardtable.Placement, style tcell.Style) {
	x0, y0, x1, y1 := h.cellRect(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ch := ' '
			switch {
			case y == y0 && x == x0:
				ch = '┌'
			case y == y0 && x == x1:
				ch = '┐'
			case y == y1 && x == x0:
				ch = '└'
			case y == y1 && x == x1:
				ch = '┘'
			case y == y0 || y == y1:
				ch = '─'
			case x == x0 || x == x1:
				ch = '│'
			case p.FaceDown:
				ch = '▒'
			}
			st := style
			if p.FaceDown && ch == '▒' {
				st = h.styleBack
			}
			h.screen.SetContent(x, y, ch, nil, st)
		}
	}
	if !p.FaceDown && x1-x0 > 1 {
		label := []rune(h.opts.Label(p.Card))
		if len(label) > x1-x0-1 {
			label = label[:x1-x0-1]
		}
		h.drawText(x0+1, y0, string(label), style)
	}
}

// highlight restyles the top edge of a drawn card, which stays visible even
// when the card is fanned under others.
func (h *Host) highlight(r cardtable.Rect) {
	x0, y0, x1, _ := h.cellRect(r)
	for x := x0; x <= x1; x++ {
		ch, comb, _, _ := h.screen.GetContent(x, y0)
		h.screen.SetContent(x, y0, ch, comb, h.styleHover)
	}
}

// drawFrame marks the corners of a container's bounds.
func (h *Host) drawFrame(r cardtable.Rect, style tcell.Style) {
	x0, y0, x1, y1 := h.cellRect(r)
	h.screen.SetContent(x0, y0, '·', nil, style)
	h.screen.SetContent(x1, y0, '·', nil, style)
	h.screen.SetContent(x0, y1, '·', nil, style)
	h.screen.SetContent(x1, y1, '·', nil, style)
}

// cellRect returns the inclusive cell range covered by r, at least one cell.
func (h *Host) cellRect(r cardtable.Rect) (x0, y0, x1, y1 int) {
	cs := h.opts.CellSize
	x0 = int(math.Floor(r.X / cs.X))
	y0 = int(math.Floor(r.Y / cs.Y))
	x1 = max(int(math.Ceil((r.X+r.Width)/cs.X))-1, x0)
	y1 = max(int(math.Ceil((r.Y+r.Height)/cs.Y))-1, y0)
	return x0, y0, x1, y1
}

func (h *Host) drawText(x, y int, s string, style tcell.Style) {
	if y < 0 {
		return
	}
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run polls terminal events and updates the manager every tick until the
// context is done or the user quits.
func (h *Host) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go h.screen.ChannelEvents(events, quit)
	defer close(quit)

	last := time.Now()
	h.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !h.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			h.manager.Update(now.Sub(last))
			last = now
			if h.opts.OnTick != nil {
				h.opts.OnTick()
			}
			h.Draw()
		}
	}
}
