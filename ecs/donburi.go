package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/cardtable"
)

// TableEventType is the Donburi event type for card table events.
// Subscribe to it in ECS systems to receive clicks, moves and drags.
var TableEventType = events.NewEventType[cardtable.Event]()

// Location records which container holds a card. Detached is set while the
// card is held by the pointer; Container is then the drag source.
type Location struct {
	Card      *cardtable.Card
	Container cardtable.Container
	Detached  bool
}

// LocationComponent is attached to every card entity created by a Mirror.
var LocationComponent = donburi.NewComponentType[Location]()

var cardQuery = donburi.NewQuery(filter.Contains(LocationComponent))

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to TableEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) cardtable.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event cardtable.Event) {
	TableEventType.Publish(s.world, event)
}

// Mirror keeps a card entity per card in a Donburi world and publishes
// every event it receives to TableEventType.
type Mirror struct {
	world    donburi.World
	entities map[*cardtable.Card]donburi.Entity
}

// NewMirror creates an entity for every card currently held by a container
// registered with m.
func NewMirror(world donburi.World, m *cardtable.Manager) *Mirror {
	mi := &Mirror{world: world, entities: map[*cardtable.Card]donburi.Entity{}}
	for _, e := range m.Entries() {
		for _, c := range e.Container.Cards() {
			mi.Track(c, e.Container)
		}
	}
	return mi
}

// Track creates or updates the entity of card.
func (mi *Mirror) Track(card *cardtable.Card, c cardtable.Container) donburi.Entity {
	if ent, ok := mi.entities[card]; ok && mi.world.Valid(ent) {
		LocationComponent.SetValue(mi.world.Entry(ent), Location{Card: card, Container: c})
		return ent
	}
	ent := mi.world.Create(LocationComponent)
	LocationComponent.SetValue(mi.world.Entry(ent), Location{Card: card, Container: c})
	mi.entities[card] = ent
	return ent
}

// Entity returns the entity of card.
func (mi *Mirror) Entity(card *cardtable.Card) (donburi.Entity, bool) {
	ent, ok := mi.entities[card]
	return ent, ok
}

// EmitEvent updates card locations and republishes the event.
func (mi *Mirror) EmitEvent(ev cardtable.Event) {
	switch ev.Type {
	case cardtable.EventDragStarted:
		for _, c := range ev.Cards {
			mi.setDetached(c, ev.Container, true)
		}
	case cardtable.EventDragCancelled:
		for _, c := range ev.Cards {
			mi.setDetached(c, ev.Container, false)
		}
	case cardtable.EventCardMoved:
		mi.Track(ev.Card, ev.To)
	}
	TableEventType.Publish(mi.world, ev)
}

func (mi *Mirror) setDetached(card *cardtable.Card, c cardtable.Container, detached bool) {
	ent := mi.Track(card, c)
	loc := LocationComponent.Get(mi.world.Entry(ent))
	loc.Detached = detached
}

// CardsIn returns the cards the world places in c, in no particular order.
func CardsIn(world donburi.World, c cardtable.Container) []*cardtable.Card {
	var out []*cardtable.Card
	cardQuery.Each(world, func(e *donburi.Entry) {
		loc := LocationComponent.Get(e)
		if loc.Container == c && !loc.Detached {
			out = append(out, loc.Card)
		}
	})
	return out
}
