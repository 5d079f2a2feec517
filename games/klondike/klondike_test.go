package klondike

import (
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/cardtable"
	"github.com/phanxgames/cardtable/classic"
)

func newTestGame(t *testing.T, seed int64) (*Game, *cardtable.Manager) {
	t.Helper()
	m := cardtable.NewManager()
	g, err := New(m, Options{Seed: seed, Origin: cardtable.Vec2{X: 20, Y: 20}})
	if err != nil {
		t.Fatal(err)
	}
	return g, m
}

func run(m *cardtable.Manager, frames int) {
	for range frames {
		m.Update(16 * time.Millisecond)
	}
}

// cardCenter returns the screen center of card inside layout.
func cardCenter(t *testing.T, m *cardtable.Manager, l cardtable.Layout, card *cardtable.Card) cardtable.Vec2 {
	t.Helper()
	e, ok := m.Entry(l)
	if !ok {
		t.Fatal("layout not registered")
	}
	p, ok := cardtable.HoveredPlacement(l, card)
	if !ok {
		t.Fatalf("%v not in layout", card)
	}
	return p.Rect.Translate(e.Position).Center()
}

func slotCenter(t *testing.T, m *cardtable.Manager, c cardtable.Container) cardtable.Vec2 {
	t.Helper()
	e, ok := m.Entry(c)
	if !ok {
		t.Fatal("container not registered")
	}
	return e.Bounds().Center()
}

func empty(c cardtable.Container) {
	for len(c.Cards()) > 0 {
		c.RemoveAt(0)
	}
}

func TestNewDeal(t *testing.T) {
	g, m := newTestGame(t, 1)
	total := g.Stock.Len() + g.Waste.Len()
	for i, p := range g.Tableau {
		if p.Len() != i+1 {
			t.Errorf("tableau %d has %d cards, want %d", i, p.Len(), i+1)
		}
		if p.Hidden() != i {
			t.Errorf("tableau %d hides %d cards, want %d", i, p.Hidden(), i)
		}
		total += p.Len()
	}
	if g.Stock.Len() != 24 {
		t.Errorf("stock = %d, want 24", g.Stock.Len())
	}
	if total != 52 {
		t.Errorf("total = %d, want 52", total)
	}
	if got := len(m.Entries()); got != 13 {
		t.Errorf("registered %d containers, want 13", got)
	}
}

func TestSameSeedSameDeal(t *testing.T) {
	a, _ := newTestGame(t, 42)
	b, _ := newTestGame(t, 42)
	for i := range a.Tableau {
		if a.Tableau[i].Set().Top().Name != b.Tableau[i].Set().Top().Name {
			t.Fatalf("tableau %d differs between equal seeds", i)
		}
	}
}

func TestCanBuildOn(t *testing.T) {
	ids := cardtable.NewIDAllocator()
	c := func(s classic.Suit, r classic.Rank) *cardtable.Card { return classic.NewCard(ids, s, r) }
	tests := []struct {
		name      string
		top, card *cardtable.Card
		want      bool
	}{
		{"red on black", c(classic.Spades, 8), c(classic.Hearts, 7), true},
		{"black on red", c(classic.Diamonds, classic.Queen), c(classic.Clubs, classic.Jack), true},
		{"same color", c(classic.Spades, 8), c(classic.Clubs, 7), false},
		{"wrong rank", c(classic.Spades, 8), c(classic.Hearts, 6), false},
		{"higher rank", c(classic.Spades, 8), c(classic.Hearts, 9), false},
		{"empty column", nil, c(classic.Hearts, 3), true},
		{"not a classic card", nil, ids.NewCard("joker", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canBuildOn(tt.top, tt.card); got != tt.want {
				t.Errorf("canBuildOn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFoundationAccepts(t *testing.T) {
	g, _ := newTestGame(t, 1)
	ids := cardtable.NewIDAllocator()
	spades := g.Foundations[0]

	two := classic.NewCard(ids, classic.Spades, 2)
	ace := classic.NewCard(ids, classic.Spades, classic.Ace)
	if g.foundationAccepts(spades, classic.Spades, two) {
		t.Error("empty foundation accepted a two")
	}
	if g.foundationAccepts(spades, classic.Spades, classic.NewCard(ids, classic.Hearts, classic.Ace)) {
		t.Error("spades foundation accepted a heart")
	}
	if !g.foundationAccepts(spades, classic.Spades, ace) {
		t.Fatal("empty foundation refused the ace")
	}
	spades.Append(ace)
	if !g.foundationAccepts(spades, classic.Spades, two) {
		t.Error("foundation refused the two on the ace")
	}
	if g.foundationAccepts(spades, classic.Spades, classic.NewCard(ids, classic.Spades, 3)) {
		t.Error("foundation accepted a three on the ace")
	}
}

func TestDealStockCycle(t *testing.T) {
	g, _ := newTestGame(t, 3)
	g.DealStock()
	if g.Waste.Len() != 3 || g.Stock.Len() != 21 {
		t.Fatalf("after one deal waste = %d, stock = %d", g.Waste.Len(), g.Stock.Len())
	}
	first := g.Waste.Cards()[0]

	for range 7 {
		g.DealStock()
	}
	if g.Stock.Len() != 0 || g.Waste.Len() != 3 || len(g.wasteHistory) != 7 {
		t.Fatalf("after eight deals stock = %d, waste = %d, history = %d",
			g.Stock.Len(), g.Waste.Len(), len(g.wasteHistory))
	}

	g.DealStock()
	if g.Stock.Len() != 24 || g.Waste.Len() != 0 || len(g.wasteHistory) != 0 {
		t.Fatalf("after refill stock = %d, waste = %d, history = %d",
			g.Stock.Len(), g.Waste.Len(), len(g.wasteHistory))
	}
	if g.Stock.Set().Top() != first {
		t.Errorf("stock top = %v, want first dealt card %v", g.Stock.Set().Top(), first)
	}
}

func TestClickStockDeals(t *testing.T) {
	g, m := newTestGame(t, 5)
	at := slotCenter(t, m, g.Stock)
	m.InjectClick(at.X, at.Y)
	run(m, 3)
	if g.Stock.Len() != 21 || g.Waste.Len() != 3 {
		t.Errorf("stock = %d, waste = %d; want 21 and 3", g.Stock.Len(), g.Waste.Len())
	}
}

func TestWasteRestoresCoveredGroup(t *testing.T) {
	g, m := newTestGame(t, 5)
	g.DealStock()
	covered := g.Waste.Cards()
	g.DealStock()

	empty(g.Tableau[0])
	for range 3 {
		top := g.Waste.Set().Top()
		from := cardCenter(t, m, g.Waste, top)
		to := slotCenter(t, m, g.Tableau[0])
		empty(g.Tableau[0])
		m.InjectDrag(from.X, from.Y, to.X, to.Y, 4)
		run(m, 5)
		if g.Tableau[0].Set().Top() != top {
			t.Fatalf("waste top %v did not move", top)
		}
	}
	got := g.Waste.Cards()
	if len(got) != len(covered) {
		t.Fatalf("waste = %d cards, want restored group of %d", len(got), len(covered))
	}
	for i := range got {
		if got[i] != covered[i] {
			t.Errorf("waste[%d] = %v, want %v", i, got[i], covered[i])
		}
	}
}

func TestClickSendsAceHome(t *testing.T) {
	g, m := newTestGame(t, 1)
	ids := cardtable.NewIDAllocator()
	ace := classic.NewCard(ids, classic.Hearts, classic.Ace)
	col := g.Tableau[0]
	empty(col)
	col.Append(ace)

	at := cardCenter(t, m, col, ace)
	m.InjectClick(at.X, at.Y)
	run(m, 3)

	if g.Foundations[1].Set().Top() != ace {
		t.Fatalf("hearts foundation top = %v, want the ace", g.Foundations[1].Set().Top())
	}
	if col.Len() != 0 {
		t.Errorf("column still has %d cards", col.Len())
	}
	if g.CardsMoved() != 1 {
		t.Errorf("CardsMoved = %d, want 1", g.CardsMoved())
	}
}

type sinkFunc func(cardtable.Event)

func (f sinkFunc) EmitEvent(ev cardtable.Event) { f(ev) }

func TestSentHomeReachesSink(t *testing.T) {
	var got []cardtable.Event
	m := cardtable.NewManager()
	g, err := New(m, Options{Seed: 1, Sink: sinkFunc(func(ev cardtable.Event) { got = append(got, ev) })})
	if err != nil {
		t.Fatal(err)
	}
	ace := classic.NewCard(cardtable.NewIDAllocator(), classic.Diamonds, classic.Ace)
	empty(g.Waste)
	g.Waste.Append(ace)

	if !g.sendHome(g.Waste, ace) {
		t.Fatal("ace not sent home")
	}
	if len(got) != 1 || got[0].Card != ace || got[0].From != g.Waste || got[0].To != g.Foundations[2] {
		t.Errorf("sink events = %+v", got)
	}
}

func TestDragToEmptyColumnTurnsTop(t *testing.T) {
	g, m := newTestGame(t, 9)
	empty(g.Tableau[0])
	src := g.Tableau[1]
	top := src.Set().Top()

	from := cardCenter(t, m, src, top)
	to := slotCenter(t, m, g.Tableau[0])
	m.InjectDrag(from.X, from.Y, to.X, to.Y, 5)
	run(m, 6)

	if g.Tableau[0].Set().Top() != top {
		t.Fatalf("card did not reach the empty column")
	}
	if src.Len() != 1 || src.Hidden() != 0 {
		t.Errorf("source len = %d, hidden = %d; want 1 face-up card", src.Len(), src.Hidden())
	}
}

func TestHiddenCardCannotBeDragged(t *testing.T) {
	g, m := newTestGame(t, 9)
	empty(g.Tableau[0])
	col := g.Tableau[6]
	e, _ := m.Entry(col)
	from := e.Position.Add(cardtable.Vec2{X: col.CardSize().X / 2, Y: 4})
	to := slotCenter(t, m, g.Tableau[0])

	started := 0
	m.OnDragStarted(func(cardtable.DragEvent) { started++ })
	// Press and release only: moving across other columns would pick up
	// whatever face-up card the pointer crosses.
	m.InjectDrag(from.X, from.Y, to.X, to.Y, 2)
	run(m, 3)

	if started != 0 || col.Len() != 7 || g.Tableau[0].Len() != 0 {
		t.Errorf("started = %d, column = %d, target = %d", started, col.Len(), g.Tableau[0].Len())
	}
}

func TestWin(t *testing.T) {
	g, m := newTestGame(t, 1)
	ids := cardtable.NewIDAllocator()
	for i, suit := range classic.Suits {
		last := classic.King
		if suit == classic.Clubs {
			last = classic.Queen
		}
		for r := classic.Ace; r <= last; r++ {
			g.Foundations[i].Append(classic.NewCard(ids, suit, r))
		}
	}
	king := classic.NewCard(ids, classic.Clubs, classic.King)
	col := g.Tableau[0]
	empty(col)
	col.Append(king)

	wins := 0
	g.OnWin(func() { wins++ })
	at := cardCenter(t, m, col, king)
	m.InjectClick(at.X, at.Y)
	run(m, 3)

	if !g.Won() || wins != 1 {
		t.Fatalf("Won = %v, wins = %d", g.Won(), wins)
	}
	if !strings.HasPrefix(g.Status(), "won in") {
		t.Errorf("Status = %q", g.Status())
	}
}

func TestLabel(t *testing.T) {
	ids := cardtable.NewIDAllocator()
	if got := Label(classic.NewCard(ids, classic.Hearts, 10)); got != "10♥" {
		t.Errorf("Label = %q", got)
	}
	if !Red(classic.NewCard(ids, classic.Diamonds, 2)) || Red(classic.NewCard(ids, classic.Clubs, 2)) {
		t.Error("Red mismatch")
	}
}
