package cardtable

import (
	"errors"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

var testCardSize = Vec2{10, 8}

func newTestHand(ids *IDAllocator, name string, names ...string) *AlignedHand {
	return NewAlignedHand(name, NewCardSet(ids.NewCards(names...)...), Vec2{30, 10}, testCardSize)
}

func mustAdd(t *testing.T, m *Manager, c Container, pos Vec2, p Policy) {
	t.Helper()
	if err := m.AddContainer(c, pos, p); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
}

func press(m *Manager, x, y float64) {
	m.ProcessEvent(PointerEvent{Type: PointerDown, Pos: Vec2{x, y}})
}

func move(m *Manager, x, y float64) {
	m.ProcessEvent(PointerEvent{Type: PointerMove, Pos: Vec2{x, y}})
}

func release(m *Manager, x, y float64) {
	m.ProcessEvent(PointerEvent{Type: PointerUp, Pos: Vec2{x, y}})
}

func countType(events []Event, typ EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func totalCards(cs ...Container) int {
	n := 0
	for _, c := range cs {
		n += len(c.Cards())
	}
	return n
}

func TestConcreteClickScenario(t *testing.T) {
	tests := []struct {
		name   string
		held   time.Duration
		clicks int
	}{
		{"quick press clicks", 50 * time.Millisecond, 1},
		{"threshold is inclusive", DefaultClickThreshold, 1},
		{"long press does not click", 2000 * time.Millisecond, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := NewIDAllocator()
			a := newTestHand(ids, "A", "X", "Y", "Z")
			x := a.Cards()[0]
			m := NewManager()
			mustAdd(t, m, a, Vec2{10, 10}, Policy{Clickable: true})

			var clicks []ClickEvent
			m.OnContainerClicked(func(e ClickEvent) { clicks = append(clicks, e) })

			press(m, 15, 15)
			m.Update(tt.held)
			release(m, 15, 15)
			m.Update(frame)

			if len(clicks) != tt.clicks {
				t.Fatalf("clicks = %d, want %d", len(clicks), tt.clicks)
			}
			if tt.clicks == 1 {
				if clicks[0].Container != a {
					t.Errorf("click container = %v, want A", clicks[0].Container)
				}
				if clicks[0].Card != x {
					t.Errorf("click card = %v, want %v", clicks[0].Card, x)
				}
			}
			if got := countType(m.PollEvents(nil), EventContainerClicked); got != tt.clicks {
				t.Errorf("queued clicks = %d, want %d", got, tt.clicks)
			}
			if totalCards(a) != 3 {
				t.Errorf("cards = %d, want 3", totalCards(a))
			}
		})
	}
}

func TestClickWithoutDrag(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	p, err := NewPolicy(Clickable(true), DragOut(false))
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, m, a, Vec2{}, p)

	press(m, 5, 5)
	m.Update(frame)
	if m.Dragging() {
		t.Fatal("card detached from a container that forbids drag out")
	}
	release(m, 5, 5)
	m.Update(frame)

	events := m.PollEvents(nil)
	if len(events) != 1 || events[0].Type != EventContainerClicked {
		t.Fatalf("events = %v, want one click", events)
	}
	if events[0].Card != a.Cards()[0] {
		t.Errorf("click card = %v, want X", events[0].Card)
	}
}

func TestClickOnEmptyContainer(t *testing.T) {
	a := NewAlignedHand("A", nil, Vec2{30, 10}, testCardSize)
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{Clickable: true})

	press(m, 20, 5)
	m.Update(frame)
	release(m, 20, 5)
	m.Update(frame)

	events := m.PollEvents(nil)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Card != nil {
		t.Errorf("click card = %v, want nil", events[0].Card)
	}
}

func TestNonClickableContainer(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{CanDragOut: Always(false)})

	press(m, 5, 5)
	m.Update(frame)
	release(m, 5, 5)
	m.Update(frame)

	if events := m.PollEvents(nil); len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
}

func TestDragSuccess(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X", "Y")
	b := NewAlignedHand("B", nil, Vec2{30, 10}, testCardSize)
	x := a.Cards()[0]

	m := NewManager()
	mustAdd(t, m, a, Vec2{}, DefaultPolicy())
	mustAdd(t, m, b, Vec2{100, 0}, DefaultPolicy())

	var moves []MoveEvent
	m.OnCardMoved(func(e MoveEvent) { moves = append(moves, e) })

	press(m, 5, 5)
	m.Update(frame)
	if !m.Dragging() {
		t.Fatal("expected card to be detached")
	}
	if got := m.Detached(); len(got) != 1 || got[0] != x {
		t.Fatalf("Detached = %v, want [X]", got)
	}
	if m.DetachSource() != a {
		t.Errorf("DetachSource = %v, want A", m.DetachSource())
	}
	if totalCards(a, b)+len(m.Detached()) != 2 {
		t.Error("card count not conserved while dragging")
	}

	move(m, 105, 5)
	m.Update(frame)
	if dest, ok := m.DropTarget(); !ok || dest != b {
		t.Errorf("DropTarget = %v, %v; want B, true", dest, ok)
	}
	release(m, 105, 5)
	m.Update(frame)

	if len(moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(moves))
	}
	if moves[0].Card != x || moves[0].From != a || moves[0].To != b {
		t.Errorf("move = %+v, want X from A to B", moves[0])
	}
	if !b.Set().Contains(x) || a.Set().Contains(x) {
		t.Error("card should be in B and not in A")
	}
	if m.Dragging() || m.Pressed() {
		t.Error("gesture should be over")
	}
}

func TestDragRefusal(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X", "Y")
	b := NewAlignedHand("B", nil, Vec2{30, 10}, testCardSize)
	x := a.Cards()[0]

	m := NewManager()
	mustAdd(t, m, a, Vec2{}, DefaultPolicy())
	mustAdd(t, m, b, Vec2{100, 0}, Policy{CanDragIn: Always(false)})

	var cancelled []DragEvent
	m.OnDragCancelled(func(e DragEvent) { cancelled = append(cancelled, e) })

	m.InjectDrag(5, 5, 105, 5, 4)
	for range 4 {
		m.Update(frame)
	}

	events := m.PollEvents(nil)
	if n := countType(events, EventCardMoved); n != 0 {
		t.Errorf("moves = %d, want 0", n)
	}
	if len(cancelled) != 1 || cancelled[0].Source != a {
		t.Fatalf("cancelled = %v, want one from A", cancelled)
	}
	cards := a.Cards()
	if len(cards) != 2 || cards[1] != x {
		t.Errorf("A = %v, want X appended back on top", cards)
	}
	if b.Len() != 0 {
		t.Errorf("B holds %d cards, want 0", b.Len())
	}
}

func TestDropOutsideAnyContainer(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, DefaultPolicy())

	m.InjectDrag(5, 5, 500, 500, 3)
	for range 3 {
		m.Update(frame)
	}
	if a.Len() != 1 {
		t.Errorf("A holds %d cards, want 1", a.Len())
	}
	if countType(m.PollEvents(nil), EventDragCancelled) != 1 {
		t.Error("expected a drag cancelled event")
	}
}

func TestDragOutPredicate(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "keep", "take")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{
		CanDragOut: func(c *Card) bool { return c != nil && c.Name == "take" },
	})

	press(m, 25, 5) // second card
	m.Update(frame)
	if !m.Dragging() {
		t.Fatal("take should detach")
	}
	release(m, 25, 5)
	m.Update(frame)

	press(m, 2, 5) // first card
	m.Update(frame)
	if m.Dragging() {
		t.Error("keep should not detach")
	}
}

func TestHitTestPrecedence(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	b := NewAlignedHand("B", nil, Vec2{30, 10}, testCardSize)

	m := NewManager()
	mustAdd(t, m, a, Vec2{}, DefaultPolicy())
	mustAdd(t, m, b, Vec2{}, DefaultPolicy())

	m.SetPointer(Vec2{5, 5})
	m.Update(frame)
	c, card := m.Hovered()
	if c != a || card != a.Cards()[0] {
		t.Errorf("Hovered = %v, %v; want A, X (B has no card there)", c, card)
	}

	b.Append(ids.NewCard("W", nil))
	m.Update(frame)
	c, card = m.Hovered()
	if c != b || card != b.Cards()[0] {
		t.Errorf("Hovered = %v, %v; want B, W", c, card)
	}

	m.SetPointer(Vec2{25, 5})
	m.Update(frame)
	if c, card = m.Hovered(); c != b || card != nil {
		t.Errorf("Hovered = %v, %v; want topmost B without card", c, card)
	}

	m.SetPointer(Vec2{500, 500})
	m.Update(frame)
	if c, card = m.Hovered(); c != nil || card != nil {
		t.Errorf("Hovered = %v, %v; want nothing", c, card)
	}
}

func TestMultiDrag(t *testing.T) {
	ids := NewIDAllocator()
	cards := ids.NewCards("c0", "c1", "c2")
	src := NewPile("src", NewCardSet(cards...), Vertical, Vec2{20, 100}, Vec2{10, 20})
	dst := NewPile("dst", nil, Vertical, Vec2{20, 100}, Vec2{10, 20})

	m := NewManager()
	mustAdd(t, m, src, Vec2{}, Policy{
		AllowMultiDrag: true,
		CanDragOut:     func(c *Card) bool { return c != cards[0] },
	})
	mustAdd(t, m, dst, Vec2{100, 0}, DefaultPolicy())

	var moves []MoveEvent
	m.OnCardMoved(func(e MoveEvent) { moves = append(moves, e) })

	press(m, 10, 35) // c1
	m.Update(frame)
	got := m.Detached()
	if len(got) != 2 || got[0] != cards[1] || got[1] != cards[2] {
		t.Fatalf("Detached = %v, want [c1 c2]", got)
	}
	move(m, 110, 10)
	m.Update(frame)
	release(m, 110, 10)
	m.Update(frame)

	if len(moves) != 2 || moves[0].Card != cards[1] || moves[1].Card != cards[2] {
		t.Fatalf("moves = %v, want c1 then c2", moves)
	}
	if d := dst.Cards(); len(d) != 2 || d[0] != cards[1] || d[1] != cards[2] {
		t.Errorf("dst = %v, want [c1 c2]", d)
	}
	if s := src.Cards(); len(s) != 1 || s[0] != cards[0] {
		t.Errorf("src = %v, want [c0]", s)
	}

	// The head decides: c0 may not leave, so nothing above it goes either.
	press(m, 10, 5)
	m.Update(frame)
	if m.Dragging() {
		t.Error("c0 should not detach")
	}
}

func TestMultiDragRequiresStackPicker(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{AllowMultiDrag: true})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNotImplemented) {
			t.Fatalf("recovered %v, want ErrNotImplemented", r)
		}
	}()
	press(m, 5, 5)
	m.Update(frame)
	t.Fatal("expected panic")
}

func TestClickOnDrop(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		held    time.Duration
		clicks  int
	}{
		{"enabled quick", true, 50 * time.Millisecond, 1},
		{"enabled slow", true, time.Second, 0},
		{"disabled", false, 50 * time.Millisecond, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := NewIDAllocator()
			a := newTestHand(ids, "A", "X")
			m := NewManager()
			m.SetClickOnDrop(tt.enabled)
			mustAdd(t, m, a, Vec2{}, Policy{Clickable: true})

			press(m, 5, 5)
			m.Update(tt.held)
			if !m.Dragging() {
				t.Fatal("expected detach")
			}
			release(m, 5, 5)
			m.Update(frame)

			events := m.PollEvents(nil)
			if n := countType(events, EventCardMoved); n != 1 {
				t.Errorf("moves = %d, want 1", n)
			}
			if n := countType(events, EventContainerClicked); n != tt.clicks {
				t.Errorf("clicks = %d, want %d", n, tt.clicks)
			}
		})
	}
}

func TestPanickingDropPredicateKeepsCards(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	b := NewAlignedHand("B", nil, Vec2{30, 10}, testCardSize)
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, DefaultPolicy())
	mustAdd(t, m, b, Vec2{100, 0}, Policy{CanDragIn: func(c *Card) bool {
		if c != nil {
			panic("boom")
		}
		return true
	}})

	press(m, 5, 5)
	m.Update(frame)
	move(m, 105, 5)
	m.Update(frame)
	release(m, 105, 5)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected predicate panic to propagate")
			}
		}()
		m.Update(frame)
	}()

	if a.Len() != 1 || b.Len() != 0 {
		t.Errorf("A = %d, B = %d; want card back in A", a.Len(), b.Len())
	}
	if m.Dragging() {
		t.Error("session should be reset")
	}
}

func TestPanickingMoveHandlerKeepsCards(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	b := NewAlignedHand("B", nil, Vec2{30, 10}, testCardSize)
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, DefaultPolicy())
	mustAdd(t, m, b, Vec2{100, 0}, DefaultPolicy())

	panics := 1
	m.OnCardMoved(func(MoveEvent) {
		if panics > 0 {
			panics--
			panic("handler failed")
		}
	})

	press(m, 5, 5)
	m.Update(frame)
	move(m, 105, 5)
	m.Update(frame)
	release(m, 105, 5)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected handler panic to propagate")
			}
		}()
		m.Update(frame)
	}()
	if m.Dragging() {
		t.Error("session should be idle after the drop")
	}

	m.Update(frame)
	if a.Len() != 0 || b.Len() != 1 {
		t.Errorf("A = %d, B = %d; want the card once in B", a.Len(), b.Len())
	}
	if got := totalCards(a, b); got != 1 {
		t.Errorf("cards on table = %d, want 1", got)
	}
}

func TestPressAfterReleaseInSameFrame(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{Clickable: true, CanDragOut: Always(false)})

	press(m, 5, 5)
	release(m, 5, 5)
	press(m, 5, 5)
	m.Update(frame)
	if !m.Pressed() {
		t.Fatal("second press should be held after the release resolves")
	}

	release(m, 5, 5)
	m.Update(frame)
	if got := countType(m.PollEvents(nil), EventContainerClicked); got != 2 {
		t.Errorf("clicks = %d, want 2", got)
	}
}

func TestPressOutsideThenMoveOntoCardDetaches(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	mustAdd(t, m, a, Vec2{50, 0}, DefaultPolicy())

	press(m, 0, 0)
	m.Update(frame)
	if m.Dragging() {
		t.Fatal("nothing under the press point")
	}
	move(m, 55, 5)
	m.Update(frame)
	if !m.Dragging() {
		t.Error("held press over a card should detach it")
	}
}

func TestReleaseWithOtherButtonIgnored(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{Clickable: true, CanDragOut: Always(false)})

	press(m, 5, 5)
	m.Update(frame)
	m.ProcessEvent(PointerEvent{Type: PointerUp, Pos: Vec2{5, 5}, Button: MouseButtonRight})
	m.Update(frame)
	if !m.Pressed() {
		t.Error("right release should not end a left press")
	}
}

func TestVelocity(t *testing.T) {
	m := NewManager()
	m.SetPointer(Vec2{10, 10})
	m.Update(frame)
	move(m, 13, 6)
	m.Update(frame)
	if got, want := m.Velocity(), (Vec2{3, -4}); got != want {
		t.Errorf("Velocity = %v, want %v", got, want)
	}
	m.Update(frame)
	if got := m.Velocity(); got != (Vec2{}) {
		t.Errorf("Velocity = %v, want zero", got)
	}
}

func TestClockAdvancesOnlyThroughUpdate(t *testing.T) {
	m := NewManager()
	m.Update(10 * time.Millisecond)
	m.Update(15 * time.Millisecond)
	if got := m.Clock(); got != 25*time.Millisecond {
		t.Errorf("Clock = %v, want 25ms", got)
	}
}

func TestRegistration(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "X")
	b := newTestHand(ids, "B")
	m := NewManager()
	mustAdd(t, m, a, Vec2{}, Policy{})

	if err := m.AddContainer(a, Vec2{}, Policy{}); !errors.Is(err, ErrDuplicateContainer) {
		t.Errorf("duplicate add err = %v, want ErrDuplicateContainer", err)
	}
	if err := m.SetPosition(b, Vec2{}); !errors.Is(err, ErrUnknownContainer) {
		t.Errorf("SetPosition err = %v, want ErrUnknownContainer", err)
	}
	bad := Policy{CanDragIn: func(c *Card) bool { return c.Name != "" }}
	if err := m.SetPolicy(a, bad); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("SetPolicy err = %v, want ErrInvalidPolicy", err)
	}

	e, ok := m.Entry(a)
	if !ok {
		t.Fatal("Entry(a) not found")
	}
	if e.Policy.CanDragOut == nil || e.Policy.CanDragIn == nil {
		t.Error("zero policy predicates should be filled in")
	}
	if got := e.Bounds(); got != (Rect{0, 0, 30, 10}) {
		t.Errorf("Bounds = %v", got)
	}

	press(m, 5, 5)
	m.Update(frame)
	if err := m.RemoveContainer(a); !errors.Is(err, ErrContainerBusy) {
		t.Errorf("RemoveContainer during drag err = %v, want ErrContainerBusy", err)
	}
	release(m, 5, 5)
	m.Update(frame)
	if err := m.RemoveContainer(a); err != nil {
		t.Errorf("RemoveContainer: %v", err)
	}
	if len(m.Entries()) != 0 {
		t.Errorf("Entries = %d, want 0", len(m.Entries()))
	}
}

func TestConservationOverRandomGestures(t *testing.T) {
	ids := NewIDAllocator()
	a := newTestHand(ids, "A", "1", "2", "3")
	b := newTestHand(ids, "B", "4")
	c := NewPile("C", NewCardSet(ids.NewCards("5", "6")...), Vertical, Vec2{20, 60}, Vec2{10, 20})
	m := NewManager()
	mustAdd(t, m, a, Vec2{0, 0}, DefaultPolicy())
	mustAdd(t, m, b, Vec2{40, 0}, Policy{CanDragIn: func(c *Card) bool { return c == nil || c.Name != "1" }})
	mustAdd(t, m, c, Vec2{80, 0}, Policy{AllowMultiDrag: true})

	points := []Vec2{{5, 5}, {25, 5}, {45, 5}, {90, 5}, {90, 35}, {300, 300}, {15, 2}}
	for i := range 60 {
		from := points[i%len(points)]
		to := points[(i*3+1)%len(points)]
		m.InjectDrag(from.X, from.Y, to.X, to.Y, 2+i%3)
		for m.PendingInjections() > 0 {
			m.Update(frame)
			if got := totalCards(a, b, c) + len(m.Detached()); got != 6 {
				t.Fatalf("gesture %d: card count = %d, want 6", i, got)
			}
		}
		m.Update(frame)
	}
	seen := map[*Card]bool{}
	for _, card := range append(append(a.Cards(), b.Cards()...), c.Cards()...) {
		if seen[card] {
			t.Fatalf("card %v appears twice", card)
		}
		seen[card] = true
	}
}
