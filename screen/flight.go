package screen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/cardtable"
)

// FlightDuration is how long, in seconds, a released card takes to settle
// into its container.
const FlightDuration = 0.18

// Flight animates one card from where the pointer let it go to its resting
// placement. The destination is re-read every frame, so a container that
// reflows while the card is in the air is still hit exactly.
type Flight struct {
	Card *cardtable.Card
	From cardtable.Vec2

	progress *gween.Tween
	t        float64
	Done     bool
}

// NewFlight starts a flight from the top-left position from.
func NewFlight(card *cardtable.Card, from cardtable.Vec2, duration float32, fn ease.TweenFunc) *Flight {
	if fn == nil {
		fn = ease.OutCubic
	}
	return &Flight{Card: card, From: from, progress: gween.New(0, 1, duration, fn)}
}

// Update advances the flight by dt seconds.
func (f *Flight) Update(dt float32) {
	if f.Done {
		return
	}
	v, finished := f.progress.Update(dt)
	f.t = float64(v)
	f.Done = finished
}

// Progress returns the eased progress in [0, 1].
func (f *Flight) Progress() float64 {
	if f.Done {
		return 1
	}
	return f.t
}

// Position returns the card's current top-left given its destination.
func (f *Flight) Position(to cardtable.Vec2) cardtable.Vec2 {
	t := f.Progress()
	return f.From.Add(to.Sub(f.From).Scale(t))
}

// Flights tracks the cards currently in the air, at most one flight per card.
type Flights struct {
	active map[*cardtable.Card]*Flight
}

// NewFlights creates an empty set.
func NewFlights() *Flights {
	return &Flights{active: make(map[*cardtable.Card]*Flight)}
}

// Start launches a flight for card, replacing any flight it already had.
func (s *Flights) Start(card *cardtable.Card, from cardtable.Vec2) *Flight {
	f := NewFlight(card, from, FlightDuration, ease.OutCubic)
	s.active[card] = f
	return f
}

// Get returns card's flight, if it is in the air.
func (s *Flights) Get(card *cardtable.Card) (*Flight, bool) {
	f, ok := s.active[card]
	return f, ok
}

// Cancel drops card's flight so it is drawn at rest immediately.
func (s *Flights) Cancel(card *cardtable.Card) {
	delete(s.active, card)
}

// Len returns the number of cards in the air.
func (s *Flights) Len() int { return len(s.active) }

// Update advances every flight and forgets finished ones.
func (s *Flights) Update(dt float32) {
	for card, f := range s.active {
		f.Update(dt)
		if f.Done {
			delete(s.active, card)
		}
	}
}
