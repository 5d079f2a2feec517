package cardtable

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultClickThreshold is the longest press that still counts as a click.
const DefaultClickThreshold = 150 * time.Millisecond

// PointerEventType identifies a raw pointer event.
type PointerEventType uint8

const (
	PointerDown PointerEventType = iota // a button was pressed
	PointerUp                           // a button was released
	PointerMove                         // the pointer moved
)

// PointerEvent is one raw input event fed to Manager.ProcessEvent.
type PointerEvent struct {
	Type   PointerEventType
	Pos    Vec2
	Button MouseButton
}

// Entry describes one registered container.
type Entry struct {
	Container Container
	Position  Vec2
	Policy    Policy
}

// Bounds returns the container's screen rectangle at its current size.
func (e Entry) Bounds() Rect {
	return RectAt(e.Position, e.Container.Size())
}

type registration struct {
	container Container
	pos       Vec2
	policy    Policy
}

func (r *registration) bounds() Rect {
	return RectAt(r.pos, r.container.Size())
}

func (r *registration) label() string {
	if n, ok := r.container.(Namer); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", r.container)
}

// session is the transient interaction state. Exactly one of these states
// holds at a time:
//
//	idle:      !pressed && !releasePending && payload == nil
//	pressing:  pressed && payload == nil
//	detached:  pressed && payload != nil
//	releasing: releasePending (with or without payload)
type session struct {
	pointer     Vec2
	lastPointer Vec2
	velocity    Vec2

	hover     *registration
	hoverCard *Card

	pressed        bool
	button         MouseButton
	pressAt        time.Duration
	pressPos       Vec2
	releasePending bool
	releaseAt      time.Duration

	// A press that arrived while a release was waiting for Update.
	queued       bool
	queuedButton MouseButton
	queuedPos    Vec2

	payload []*Card
	source  *registration
}

// Manager turns raw pointer input into card interactions over a set of
// registered containers: hover tracking, clicks, and moving cards (or
// sub-stacks) from one container to another under each container's Policy.
//
// A Manager is driven by a single goroutine: call ProcessEvent for each input
// event, then Update once per frame. It never reads the wall clock; time
// only advances through Update's dt.
type Manager struct {
	entries []*registration

	clock          time.Duration
	clickThreshold time.Duration
	clickOnDrop    bool

	state session

	handlers     handlerRegistry
	sink         EventSink
	queue        []Event
	queueEnabled bool

	injectQueue []PointerEvent
	script      *GestureScript

	logger *log.Logger
	debug  bool
	// level the logger had before debug mode lowered it.
	level log.Level
}

// NewManager creates a manager with no containers and the default click
// threshold.
func NewManager() *Manager {
	return &Manager{
		clickThreshold: DefaultClickThreshold,
		clickOnDrop:    true,
		queueEnabled:   true,
		logger:         newDefaultLogger(),
	}
}

// SetClickThreshold sets the longest press-to-release time that counts as
// a click. The comparison is inclusive.
func (m *Manager) SetClickThreshold(d time.Duration) {
	m.clickThreshold = d
}

// ClickThreshold returns the click threshold.
func (m *Manager) ClickThreshold() time.Duration {
	return m.clickThreshold
}

// SetClickOnDrop controls whether a quick pick-up-and-drop on the same
// container also emits a ContainerClicked event. It is on by default, so a
// host reacting to both clicks and moves may see two events for one gesture.
func (m *Manager) SetClickOnDrop(enabled bool) {
	m.clickOnDrop = enabled
}

// --- Registration ---

// AddContainer registers c at screen position pos. Containers registered
// later are drawn over and hit-tested before earlier ones. A zero Policy is
// accepted; nil predicates allow everything.
func (m *Manager) AddContainer(c Container, pos Vec2, p Policy) error {
	if c == nil {
		return fmt.Errorf("add container: %w: nil container", ErrUnknownContainer)
	}
	if m.find(c) != nil {
		return fmt.Errorf("add container %T: %w", c, ErrDuplicateContainer)
	}
	p, err := p.normalized()
	if err != nil {
		return fmt.Errorf("add container %T: %w", c, err)
	}
	m.entries = append(m.entries, &registration{container: c, pos: pos, policy: p})
	return nil
}

// RemoveContainer unregisters c. Containers taking part in an active drag
// cannot be removed.
func (m *Manager) RemoveContainer(c Container) error {
	reg := m.find(c)
	if reg == nil {
		return fmt.Errorf("remove container %T: %w", c, ErrUnknownContainer)
	}
	if reg == m.state.source {
		return fmt.Errorf("remove container %T: %w", c, ErrContainerBusy)
	}
	if m.state.hover == reg {
		m.state.hover, m.state.hoverCard = nil, nil
	}
	m.entries = slices.DeleteFunc(m.entries, func(r *registration) bool { return r == reg })
	return nil
}

// SetPosition moves a registered container.
func (m *Manager) SetPosition(c Container, pos Vec2) error {
	reg := m.find(c)
	if reg == nil {
		return fmt.Errorf("set position %T: %w", c, ErrUnknownContainer)
	}
	reg.pos = pos
	return nil
}

// SetPolicy replaces the policy of a registered container.
func (m *Manager) SetPolicy(c Container, p Policy) error {
	reg := m.find(c)
	if reg == nil {
		return fmt.Errorf("set policy %T: %w", c, ErrUnknownContainer)
	}
	p, err := p.normalized()
	if err != nil {
		return fmt.Errorf("set policy %T: %w", c, err)
	}
	reg.policy = p
	return nil
}

// Entry returns the registration record of c.
func (m *Manager) Entry(c Container) (Entry, bool) {
	reg := m.find(c)
	if reg == nil {
		return Entry{}, false
	}
	return reg.entry(), true
}

// Entries returns every registration in registration (draw) order.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, reg := range m.entries {
		out[i] = reg.entry()
	}
	return out
}

func (r *registration) entry() Entry {
	return Entry{Container: r.container, Position: r.pos, Policy: r.policy}
}

func (m *Manager) find(c Container) *registration {
	for _, reg := range m.entries {
		if reg.container == c {
			return reg
		}
	}
	return nil
}

// --- Session accessors ---

// Clock returns the total time passed to Update.
func (m *Manager) Clock() time.Duration { return m.clock }

// Pointer returns the last known pointer position.
func (m *Manager) Pointer() Vec2 { return m.state.pointer }

// Velocity returns the pointer movement during the last Update, in pixels.
// Hosts use it to tilt the dragged card.
func (m *Manager) Velocity() Vec2 { return m.state.velocity }

// Hovered returns the container and card under the pointer as of the last
// Update. Either may be nil.
func (m *Manager) Hovered() (Container, *Card) {
	if m.state.hover == nil {
		return nil, nil
	}
	return m.state.hover.container, m.state.hoverCard
}

// Pressed reports whether a button is held down.
func (m *Manager) Pressed() bool { return m.state.pressed }

// Dragging reports whether cards are currently detached.
func (m *Manager) Dragging() bool { return m.state.payload != nil }

// Detached returns the cards currently held by the pointer, head first.
func (m *Manager) Detached() []*Card { return slices.Clone(m.state.payload) }

// DetachSource returns the container the detached cards came from.
func (m *Manager) DetachSource() Container {
	if m.state.source == nil {
		return nil
	}
	return m.state.source.container
}

// DropTarget returns the hovered container when it would accept the
// detached cards.
func (m *Manager) DropTarget() (Container, bool) {
	st := &m.state
	if st.payload == nil || st.hover == nil {
		return nil, false
	}
	if !st.hover.policy.CanDragIn(st.payload[0]) {
		return nil, false
	}
	return st.hover.container, true
}

// --- Input ---

// ProcessEvent feeds one raw pointer event. Presses and releases are
// recorded here and resolved by the next Update. A press arriving after a
// release in the same frame is held until that release is resolved; only
// one such press is kept, and its own release waits for the next frame.
func (m *Manager) ProcessEvent(ev PointerEvent) {
	st := &m.state
	st.pointer = ev.Pos

	switch ev.Type {
	case PointerDown:
		if st.pressed {
			return
		}
		if st.releasePending {
			if !st.queued {
				st.queued = true
				st.queuedButton = ev.Button
				st.queuedPos = ev.Pos
			}
			return
		}
		st.pressed = true
		st.button = ev.Button
		st.pressAt = m.clock
		st.pressPos = ev.Pos
	case PointerUp:
		if !st.pressed || ev.Button != st.button {
			return
		}
		st.pressed = false
		st.releasePending = true
		st.releaseAt = m.clock
	}
}

// SetPointer records the pointer position sampled by the host when no event
// carried it.
func (m *Manager) SetPointer(pos Vec2) {
	m.state.pointer = pos
}

// Update advances the manager clock by dt, resolves what is under the
// pointer, then runs the press / drag / release transitions.
func (m *Manager) Update(dt time.Duration) {
	m.clock += dt

	if m.script != nil {
		m.script.step(m)
	}
	m.processInjectedInput()

	m.resolveHover()

	st := &m.state
	switch {
	case st.releasePending && st.payload == nil:
		m.resolveClick()
	case st.releasePending:
		m.resolveDrop()
	case st.pressed && st.payload == nil:
		m.tryDetach()
	}
	if st.queued && !st.releasePending {
		st.queued = false
		st.pressed = true
		st.button = st.queuedButton
		st.pressAt = m.clock
		st.pressPos = st.queuedPos
	}

	st.velocity = st.pointer.Sub(st.lastPointer)
	st.lastPointer = st.pointer
}

// resolveHover finds the container and card under the pointer. Containers
// are scanned topmost first; the first one with a card under the pointer
// wins, otherwise the topmost container under the pointer is kept with no
// card.
func (m *Manager) resolveHover() {
	st := &m.state
	st.hover, st.hoverCard = nil, nil
	for i := len(m.entries) - 1; i >= 0; i-- {
		reg := m.entries[i]
		if !reg.bounds().ContainsPoint(st.pointer) {
			continue
		}
		if st.hover == nil {
			st.hover = reg
		}
		if card := reg.container.CardAt(st.pointer.Sub(reg.pos)); card != nil {
			st.hover, st.hoverCard = reg, card
			return
		}
	}
}

func (m *Manager) withinClick() bool {
	return m.state.releaseAt-m.state.pressAt <= m.clickThreshold
}

// resolveClick handles a release that never turned into a drag.
func (m *Manager) resolveClick() {
	st := &m.state
	click := m.withinClick() && st.hover != nil && st.hover.policy.Clickable
	held := st.releaseAt - st.pressAt
	m.endGesture()
	if click {
		m.fireClicked(st.hover, st.hoverCard)
	} else {
		m.logger.Debug("release without click", "held", held)
	}
}

// tryDetach lifts the hovered card (or sub-stack) out of its container when
// the container lets it go.
func (m *Manager) tryDetach() {
	st := &m.state
	if st.hover == nil || st.hoverCard == nil {
		return
	}
	reg := st.hover
	payload := []*Card{st.hoverCard}
	if reg.policy.AllowMultiDrag {
		picker, ok := reg.container.(StackPicker)
		if !ok {
			panic(fmt.Errorf("%w: %s allows multi-drag but has no CardsAt", ErrNotImplemented, reg.label()))
		}
		payload = picker.CardsAt(st.pointer.Sub(reg.pos))
		if len(payload) == 0 {
			return
		}
	}
	if !reg.policy.CanDragOut(payload[0]) {
		return
	}

	for _, c := range payload {
		reg.container.Remove(c)
	}
	st.payload = payload
	st.source = reg
	st.hoverCard = nil
	m.fireDrag(EventDragStarted, payload, reg)
}

// resolveDrop commits the detached cards to the hovered container, or sends
// them back to their source.
func (m *Manager) resolveDrop() {
	st := &m.state
	payload, src, dest := st.payload, st.source, st.hover
	withinClick := m.withinClick()

	committed := false
	defer func() {
		// A panicking predicate must not lose the cards in flight.
		if !committed {
			src.container.Extend(payload)
			m.endGesture()
		}
	}()

	accepted := dest != nil && dest.policy.CanDragIn(payload[0])
	if accepted {
		dest.container.Extend(payload)
	} else {
		src.container.Extend(payload)
	}
	// The cards are placed; a panicking handler below must not replay the drop.
	committed = true
	m.endGesture()

	if accepted {
		for _, c := range payload {
			m.fireMoved(c, src, dest)
		}
	} else {
		m.fireDrag(EventDragCancelled, payload, src)
	}

	if m.clickOnDrop && dest == src && withinClick && src.policy.Clickable {
		m.fireClicked(src, payload[0])
	}
}

// endGesture returns the session to idle, keeping pointer and hover state.
func (m *Manager) endGesture() {
	st := &m.state
	st.pressed = false
	st.releasePending = false
	st.payload = nil
	st.source = nil
}
