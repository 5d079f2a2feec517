// Package cardtable is an interaction toolkit for card games.
//
// Cards live in containers (hands, piles, decks) laid out on a table. A
// [Manager] turns raw pointer input into card interactions over the
// registered containers: it tracks what is under the pointer, tells clicks
// from drags by press duration, lifts cards (or whole sub-stacks) out of one
// container and drops them into another, and reports what happened through
// callbacks, a polled queue and an optional [EventSink].
//
// Rendering is left to the host. The screen package draws a Manager with
// [Ebitengine]; the tui package drives the same Manager from a terminal.
//
// # Quick start
//
//	ids := cardtable.NewIDAllocator()
//	hand := cardtable.NewAlignedHand("hand", cardtable.NewCardSet(ids.NewCards("A", "B", "C")...),
//		cardtable.Vec2{X: 300, Y: 120}, cardtable.Vec2{X: 60, Y: 90})
//	discard := cardtable.NewDeck("discard", nil, cardtable.Vec2{X: 80, Y: 110}, cardtable.Vec2{X: 60, Y: 90})
//
//	m := cardtable.NewManager()
//	m.AddContainer(hand, cardtable.Vec2{X: 20, Y: 300}, cardtable.DefaultPolicy())
//	m.AddContainer(discard, cardtable.Vec2{X: 400, Y: 40}, cardtable.Policy{
//		CanDragOut: cardtable.Always(false),
//	})
//	m.OnCardMoved(func(e cardtable.MoveEvent) { fmt.Println(e.Card, "moved") })
//
// Each frame the host feeds input with [Manager.ProcessEvent] and calls
// [Manager.Update] with the elapsed time. The Manager never reads the wall
// clock, so tests drive it with fixed durations.
//
// # Policies
//
// Every container is registered with a [Policy] saying whether it is
// clickable, which cards may leave it, which cards it accepts, and whether
// sub-stacks may be dragged. Predicates see the head card of a sub-stack.
// A refused drop sends the cards back to where they came from.
//
// # Scripted input
//
// [Manager.InjectClick], [Manager.InjectDrag] and [GestureScript] queue
// synthetic input that is consumed one event per Update, which makes game
// rules testable headlessly.
//
// [Ebitengine]: https://ebitengine.org
package cardtable
