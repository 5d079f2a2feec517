// Package klondike is a playable Klondike solitaire built on the cardtable
// manager. It only sets up containers and policies and reacts to manager
// events; any host (window, terminal, tests) can run it.
package klondike

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/cardtable"
	"github.com/phanxgames/cardtable/classic"
)

// Options configures a new game.
type Options struct {
	// Seed shuffles the pack. Games with the same seed deal the same cards.
	Seed int64

	// CardSize defaults to 80x112.
	CardSize cardtable.Vec2

	// Origin is the top-left corner of the table.
	Origin cardtable.Vec2

	// Gap is the space between columns. Defaults to 16.
	Gap float64

	// DrawCount is how many cards a stock click turns over. Defaults to 3.
	DrawCount int

	// FanOffset is the step between cards of a tableau column. Defaults
	// to a quarter of the card height.
	FanOffset float64

	// Sink receives a CardMoved event for every card the game moves by
	// itself, such as a clicked card sent to its foundation. Manager events
	// do not pass through it.
	Sink cardtable.EventSink

	Logger *log.Logger
}

// Game holds the containers of one Klondike deal.
type Game struct {
	Stock       *cardtable.Deck
	Waste       *cardtable.Pile
	Foundations [4]*cardtable.Deck
	Tableau     [7]*cardtable.Pile

	manager *cardtable.Manager
	opts    Options
	logger  *log.Logger

	// wasteHistory holds the waste groups covered by later deals, oldest
	// first. When the waste empties the last group comes back.
	wasteHistory [][]*cardtable.Card

	cardsMoved int
	won        bool
	onWin      []func()
}

// New deals a fresh game and registers its containers on m.
func New(m *cardtable.Manager, opts Options) (*Game, error) {
	if opts.CardSize == (cardtable.Vec2{}) {
		opts.CardSize = cardtable.Vec2{X: 80, Y: 112}
	}
	if opts.Gap == 0 {
		opts.Gap = 16
	}
	if opts.DrawCount <= 0 {
		opts.DrawCount = 3
	}
	if opts.FanOffset <= 0 {
		opts.FanOffset = opts.CardSize.Y / 4
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	ids := cardtable.NewIDAllocator()
	pack := classic.NewDeck52(ids)
	pack.Shuffle(rand.New(rand.NewSource(opts.Seed)))

	g := &Game{manager: m, opts: opts, logger: opts.Logger}
	cs, gap := opts.CardSize, opts.Gap
	col := func(i int) float64 { return opts.Origin.X + float64(i)*(cs.X+gap) }
	top := opts.Origin.Y
	tableauY := top + cs.Y + 2*gap

	for i := range g.Tableau {
		dealt, err := pack.Draw(i + 1)
		if err != nil {
			return nil, fmt.Errorf("deal tableau %d: %w", i+1, err)
		}
		p := cardtable.NewPile(fmt.Sprintf("tableau %d", i+1), dealt, cardtable.Vertical,
			cardtable.Vec2{X: cs.X, Y: cs.Y * 5}, cs)
		p.SetOffset(opts.FanOffset)
		p.SetHidden(i)
		g.Tableau[i] = p
	}

	g.Stock = cardtable.NewDeck("stock", pack, cardtable.Vec2{X: cs.X + 8, Y: cs.Y + 8}, cs)
	g.Waste = cardtable.NewPile("waste", cardtable.NewCardSet(), cardtable.Horizontal,
		cardtable.Vec2{X: 2*cs.X + gap, Y: cs.Y}, cs)
	g.Waste.SetOffset(cs.X / 4)
	for i, suit := range classic.Suits {
		f := cardtable.NewDeck(suit.String(), cardtable.NewCardSet(), cardtable.Vec2{X: cs.X + 4, Y: cs.Y + 4}, cs)
		f.SetMaxCards(13)
		f.SetFaceUpTop(true)
		g.Foundations[i] = f
	}

	if err := g.register(col, top, tableauY); err != nil {
		return nil, err
	}
	m.OnCardMoved(g.cardMoved)
	m.OnContainerClicked(g.containerClicked)
	g.logger.Debug("dealt klondike", "seed", opts.Seed, "stock", g.Stock.Len())
	return g, nil
}

func (g *Game) register(col func(int) float64, top, tableauY float64) error {
	m := g.manager
	add := func(c cardtable.Container, x, y float64, opts ...cardtable.PolicyOption) error {
		p, err := cardtable.NewPolicy(opts...)
		if err != nil {
			return err
		}
		return m.AddContainer(c, cardtable.Vec2{X: x, Y: y}, p)
	}

	if err := add(g.Stock, col(0), top,
		cardtable.Clickable(true), cardtable.DragOut(false), cardtable.DragIn(false),
		cardtable.HighlightHovered(false)); err != nil {
		return err
	}
	if err := add(g.Waste, col(1), top,
		cardtable.Clickable(true), cardtable.DragIn(false),
		cardtable.DragOutWhen(func(c *cardtable.Card) bool { return c != nil && c == g.Waste.Set().Top() })); err != nil {
		return err
	}
	for i, f := range g.Foundations {
		suit := classic.Suits[i]
		if err := add(f, col(3+i), top,
			cardtable.DragOut(false),
			cardtable.DragInWhen(func(c *cardtable.Card) bool { return g.foundationAccepts(f, suit, c) })); err != nil {
			return err
		}
	}
	for i, p := range g.Tableau {
		if err := add(p, col(i), tableauY,
			cardtable.Clickable(true), cardtable.MultiDrag(true),
			cardtable.DragOutWhen(func(c *cardtable.Card) bool { return c != nil && !p.IsHidden(c) }),
			cardtable.DragInWhen(func(c *cardtable.Card) bool { return canBuildOn(p.Set().Top(), c) })); err != nil {
			return err
		}
	}
	return nil
}

// canBuildOn reports whether card may be placed on a tableau column whose
// top card is top. Any card may start an empty column.
func canBuildOn(top, card *cardtable.Card) bool {
	face, ok := classic.FaceOf(card)
	if !ok {
		return false
	}
	if top == nil {
		return true
	}
	under, ok := classic.FaceOf(top)
	return ok && classic.OppositeColor(face, under) && classic.IsOneBelow(face, under)
}

// foundationAccepts reports whether card alone may go onto foundation f.
func (g *Game) foundationAccepts(f *cardtable.Deck, suit classic.Suit, card *cardtable.Card) bool {
	face, ok := classic.FaceOf(card)
	if !ok || face.Suit != suit {
		return false
	}
	if g.manager.Dragging() && len(g.manager.Detached()) != 1 {
		return false
	}
	top, ok := classic.FaceOf(f.Set().Top())
	if !ok {
		return face.Rank == classic.Ace
	}
	return classic.IsOneBelow(top, face)
}

func (g *Game) cardMoved(ev cardtable.MoveEvent) {
	if ev.From != ev.To {
		g.cardsMoved++
	}
	g.afterRemoval(ev.From)
	g.checkWin()
}

func (g *Game) containerClicked(ev cardtable.ClickEvent) {
	switch ev.Container {
	case g.Stock:
		g.DealStock()
	case g.Waste:
		if ev.Card != nil && ev.Card == g.Waste.Set().Top() {
			g.sendHome(g.Waste, ev.Card)
		}
	default:
		for _, p := range g.Tableau {
			if ev.Container == p && ev.Card != nil && ev.Card == p.Set().Top() && !p.IsHidden(ev.Card) {
				g.sendHome(p, ev.Card)
			}
		}
	}
}

// afterRemoval restores the invariants of a container that lost cards: a
// tableau column shows its top card and the waste shows its last covered
// group.
func (g *Game) afterRemoval(from cardtable.Container) {
	if from == g.Waste {
		if g.Waste.Len() == 0 && len(g.wasteHistory) > 0 {
			last := g.wasteHistory[len(g.wasteHistory)-1]
			g.wasteHistory = g.wasteHistory[:len(g.wasteHistory)-1]
			g.Waste.Extend(last)
		}
		return
	}
	for _, p := range g.Tableau {
		if p == from && p.TurnTop() {
			g.logger.Debug("turned card", "column", p.Name(), "card", p.Set().Top())
		}
	}
}

// sendHome moves card from its container to the foundation of its suit
// when the foundation takes it. It reports whether the card moved.
func (g *Game) sendHome(from cardtable.Container, card *cardtable.Card) bool {
	face, ok := classic.FaceOf(card)
	if !ok {
		return false
	}
	for i, f := range g.Foundations {
		if classic.Suits[i] != face.Suit || !g.foundationAccepts(f, face.Suit, card) {
			continue
		}
		from.Remove(card)
		f.Append(card)
		g.cardsMoved++
		if g.opts.Sink != nil {
			g.opts.Sink.EmitEvent(cardtable.Event{
				Type: cardtable.EventCardMoved, Card: card, From: from, To: f, Pointer: g.manager.Pointer(),
			})
		}
		g.logger.Debug("sent home", "card", card, "foundation", f.Name())
		g.afterRemoval(from)
		g.checkWin()
		return true
	}
	return false
}

// DealStock turns the next cards of the stock onto the waste. When the
// stock is empty the whole waste is turned back over to form a new stock.
func (g *Game) DealStock() {
	if g.Stock.Len() == 0 {
		var back []*cardtable.Card
		for _, grp := range g.wasteHistory {
			back = append(back, grp...)
		}
		back = append(back, g.Waste.Cards()...)
		for g.Waste.Len() > 0 {
			g.Waste.RemoveAt(g.Waste.Len() - 1)
		}
		g.wasteHistory = nil
		for i := len(back) - 1; i >= 0; i-- {
			g.Stock.Append(back[i])
		}
		g.logger.Debug("stock refilled", "cards", g.Stock.Len())
		return
	}

	if g.Waste.Len() > 0 {
		var covered []*cardtable.Card
		for g.Waste.Len() > 0 {
			covered = append(covered, g.Waste.RemoveAt(0))
		}
		g.wasteHistory = append(g.wasteHistory, covered)
	}
	for range min(g.opts.DrawCount, g.Stock.Len()) {
		g.Waste.Append(g.Stock.RemoveAt(g.Stock.Len() - 1))
	}
}

// CardsMoved counts cards that changed containers, including automatic
// moves to the foundations.
func (g *Game) CardsMoved() int { return g.cardsMoved }

// Won reports whether every card reached a foundation.
func (g *Game) Won() bool { return g.won }

// OnWin registers fn to run once when the game is won.
func (g *Game) OnWin(fn func()) { g.onWin = append(g.onWin, fn) }

func (g *Game) checkWin() {
	if g.won {
		return
	}
	for _, f := range g.Foundations {
		if f.Len() != 13 {
			return
		}
	}
	g.won = true
	g.logger.Info("game won", "moves", g.cardsMoved)
	for _, fn := range g.onWin {
		fn()
	}
}

// Status is a one-line summary for hosts.
func (g *Game) Status() string {
	if g.won {
		return fmt.Sprintf("won in %d moves", g.cardsMoved)
	}
	home := 0
	for _, f := range g.Foundations {
		home += f.Len()
	}
	return fmt.Sprintf("stock %d  waste %d  home %d/52  moves %d", g.Stock.Len(), g.Waste.Len(), home, g.cardsMoved)
}

// Label is a short card label for narrow renderers, like "10♥".
func Label(c *cardtable.Card) string {
	f, ok := classic.FaceOf(c)
	if !ok {
		return c.Name
	}
	return f.Rank.String() + f.Suit.String()
}

// Red reports whether c is a hearts or diamonds card.
func Red(c *cardtable.Card) bool {
	f, ok := classic.FaceOf(c)
	return ok && f.Suit.Red()
}
