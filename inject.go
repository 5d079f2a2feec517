package cardtable

// InjectPress queues a left-button press at the given screen coordinates.
// Queued events are consumed one per Update, before hover resolution, so
// injected input behaves exactly like real input arriving one frame apart.
func (m *Manager) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, PointerEvent{
		Type: PointerDown, Pos: Vec2{x, y}, Button: MouseButtonLeft,
	})
}

// InjectMove queues a pointer move to the given screen coordinates. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (m *Manager) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, PointerEvent{
		Type: PointerMove, Pos: Vec2{x, y}, Button: MouseButtonLeft,
	})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (m *Manager) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, PointerEvent{
		Type: PointerUp, Pos: Vec2{x, y}, Button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames. A frame passes between press and
// release, so on a draggable card this picks the card up and drops it back
// on the same container.
func (m *Manager) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 moves
// linearly interpolated between the two points, and a release at (toX, toY).
// The sequence consumes frames frames; the minimum is 2.
func (m *Manager) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		m.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	m.InjectRelease(toX, toY)
}

// PendingInjections returns how many injected events are still queued.
func (m *Manager) PendingInjections() int {
	return len(m.injectQueue)
}

// processInjectedInput pops one queued event and feeds it through
// ProcessEvent. It reports whether an event was consumed.
func (m *Manager) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	ev := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]
	m.ProcessEvent(ev)
	return true
}
