package cardtable

// EventType identifies a kind of manager event.
type EventType uint8

const (
	EventContainerClicked EventType = iota // a clickable container was clicked
	EventCardMoved                         // a card changed containers (once per card)
	EventDragStarted                       // cards were detached from their container
	EventDragCancelled                     // detached cards went back to their source
)

func (t EventType) String() string {
	switch t {
	case EventContainerClicked:
		return "container_clicked"
	case EventCardMoved:
		return "card_moved"
	case EventDragStarted:
		return "drag_started"
	case EventDragCancelled:
		return "drag_cancelled"
	default:
		return "unknown"
	}
}

// ClickEvent is delivered to OnContainerClicked handlers. Card is nil when
// the click landed on the container but not on a card.
type ClickEvent struct {
	Container Container
	Card      *Card
	Pointer   Vec2
}

// MoveEvent is delivered to OnCardMoved handlers, once per moved card in
// source order.
type MoveEvent struct {
	Card *Card
	From Container
	To   Container
}

// DragEvent is delivered to OnDragStarted and OnDragCancelled handlers.
// Cards is the whole detached payload, head first.
type DragEvent struct {
	Cards  []*Card
	Source Container
}

// Event is the flat form of every manager event, used by the polled queue
// and by EventSink bridges. Fields not relevant to Type are zero.
type Event struct {
	Type EventType

	// Card is the clicked card (EventContainerClicked), the moved card
	// (EventCardMoved) or the head of the payload (drag events).
	Card *Card

	// Cards is the detached payload for drag events.
	Cards []*Card

	// Container is the clicked container, or the drag source.
	Container Container

	From Container
	To   Container

	Pointer Vec2
}

// EventSink receives every event the manager emits, after the callbacks
// have run. Use it to bridge events into an ECS world or a journal.
type EventSink interface {
	EmitEvent(event Event)
}

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

type handlerRegistry struct {
	clicked   []handler[ClickEvent]
	moved     []handler[MoveEvent]
	started   []handler[DragEvent]
	cancelled []handler[DragEvent]
	nextID    uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventContainerClicked:
		h.reg.clicked = removeHandler(h.reg.clicked, h.id)
	case EventCardMoved:
		h.reg.moved = removeHandler(h.reg.moved, h.id)
	case EventDragStarted:
		h.reg.started = removeHandler(h.reg.started, h.id)
	case EventDragCancelled:
		h.reg.cancelled = removeHandler(h.reg.cancelled, h.id)
	}
}

func removeHandler[T any](s []handler[T], id uint32) []handler[T] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[T]{}
			return s[:len(s)-1]
		}
	}
	return s
}

func addHandler[T any](reg *handlerRegistry, s *[]handler[T], event EventType, fn func(T)) CallbackHandle {
	reg.nextID++
	id := reg.nextID
	*s = append(*s, handler[T]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: reg, event: event}
}

// OnContainerClicked registers a callback for click events.
func (m *Manager) OnContainerClicked(fn func(ClickEvent)) CallbackHandle {
	return addHandler(&m.handlers, &m.handlers.clicked, EventContainerClicked, fn)
}

// OnCardMoved registers a callback fired once per card moved between
// containers.
func (m *Manager) OnCardMoved(fn func(MoveEvent)) CallbackHandle {
	return addHandler(&m.handlers, &m.handlers.moved, EventCardMoved, fn)
}

// OnDragStarted registers a callback fired when cards are detached.
func (m *Manager) OnDragStarted(fn func(DragEvent)) CallbackHandle {
	return addHandler(&m.handlers, &m.handlers.started, EventDragStarted, fn)
}

// OnDragCancelled registers a callback fired when detached cards return to
// their source because the drop target refused them.
func (m *Manager) OnDragCancelled(fn func(DragEvent)) CallbackHandle {
	return addHandler(&m.handlers, &m.handlers.cancelled, EventDragCancelled, fn)
}

// SetEventSink sets the optional event bridge.
func (m *Manager) SetEventSink(sink EventSink) {
	m.sink = sink
}

// SetEventQueue enables or disables the polled event queue. It is enabled
// by default; hosts that only use callbacks can turn it off.
func (m *Manager) SetEventQueue(enabled bool) {
	m.queueEnabled = enabled
	if !enabled {
		m.queue = m.queue[:0]
	}
}

// PollEvents appends the queued events to dst, clears the queue and returns
// the extended slice.
func (m *Manager) PollEvents(dst []Event) []Event {
	dst = append(dst, m.queue...)
	clear(m.queue)
	m.queue = m.queue[:0]
	return dst
}

// --- Dispatch ---

func (m *Manager) publish(ev Event) {
	if m.queueEnabled {
		m.queue = append(m.queue, ev)
	}
	if m.sink != nil {
		m.sink.EmitEvent(ev)
	}
}

func (m *Manager) fireClicked(reg *registration, card *Card) {
	ctx := ClickEvent{Container: reg.container, Card: card, Pointer: m.state.pointer}
	m.logger.Debug("container clicked", "container", reg.label(), "card", card)
	for _, h := range m.handlers.clicked {
		h.fn(ctx)
	}
	m.publish(Event{
		Type: EventContainerClicked, Card: card, Container: reg.container, Pointer: ctx.Pointer,
	})
}

func (m *Manager) fireMoved(card *Card, from, to *registration) {
	ctx := MoveEvent{Card: card, From: from.container, To: to.container}
	m.logger.Debug("card moved", "card", card, "from", from.label(), "to", to.label())
	for _, h := range m.handlers.moved {
		h.fn(ctx)
	}
	m.publish(Event{
		Type: EventCardMoved, Card: card, From: from.container, To: to.container, Pointer: m.state.pointer,
	})
}

func (m *Manager) fireDrag(typ EventType, cards []*Card, source *registration) {
	ctx := DragEvent{Cards: cards, Source: source.container}
	handlers := m.handlers.started
	msg := "drag started"
	if typ == EventDragCancelled {
		handlers = m.handlers.cancelled
		msg = "drag cancelled"
	}
	m.logger.Debug(msg, "cards", len(cards), "head", cards[0], "source", source.label())
	for _, h := range handlers {
		h.fn(ctx)
	}
	m.publish(Event{
		Type: typ, Card: cards[0], Cards: cards, Container: source.container, Pointer: m.state.pointer,
	})
}

type multiSink []EventSink

func (s multiSink) EmitEvent(ev Event) {
	for _, sink := range s {
		sink.EmitEvent(ev)
	}
}

// MultiSink returns a sink that forwards every event to each of sinks in
// order. Nil sinks are skipped.
func MultiSink(sinks ...EventSink) EventSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
