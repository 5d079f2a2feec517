package cardtable

import "fmt"

// CardPredicate decides something about a single card. Predicates must be
// total: they are probed with a nil card at construction time and must not
// panic on it.
type CardPredicate func(card *Card) bool

// Always returns a predicate that ignores its card and answers b.
func Always(b bool) CardPredicate {
	return func(*Card) bool { return b }
}

// Policy holds the rights the manager has over one registered container.
type Policy struct {
	// Clickable containers emit ContainerClicked events.
	Clickable bool

	// CanDragOut reports whether a card may be picked up from the container.
	// For multi-drag it is asked about the head of the sub-stack.
	CanDragOut CardPredicate

	// CanDragIn reports whether a dragged card may be dropped into the
	// container. For multi-drag it is asked about the head of the sub-stack.
	CanDragIn CardPredicate

	// HighlightHovered asks renderers to highlight the card under the pointer.
	HighlightHovered bool

	// AllowMultiDrag picks up the hit card and everything stacked after it.
	// The container must implement StackPicker.
	AllowMultiDrag bool
}

// PolicyOption configures a Policy built by NewPolicy.
type PolicyOption func(*Policy)

// Clickable sets whether the container emits click events.
func Clickable(b bool) PolicyOption {
	return func(p *Policy) { p.Clickable = b }
}

// DragOut allows or forbids dragging any card out of the container.
func DragOut(b bool) PolicyOption {
	return func(p *Policy) { p.CanDragOut = Always(b) }
}

// DragOutWhen allows dragging a card out when pred accepts it.
func DragOutWhen(pred CardPredicate) PolicyOption {
	return func(p *Policy) { p.CanDragOut = pred }
}

// DragIn allows or forbids dropping any card into the container.
func DragIn(b bool) PolicyOption {
	return func(p *Policy) { p.CanDragIn = Always(b) }
}

// DragInWhen allows dropping a card into the container when pred accepts it.
func DragInWhen(pred CardPredicate) PolicyOption {
	return func(p *Policy) { p.CanDragIn = pred }
}

// HighlightHovered sets whether the hovered card is highlighted.
func HighlightHovered(b bool) PolicyOption {
	return func(p *Policy) { p.HighlightHovered = b }
}

// MultiDrag enables picking up sub-stacks.
func MultiDrag(b bool) PolicyOption {
	return func(p *Policy) { p.AllowMultiDrag = b }
}

// DefaultPolicy returns the rights a container gets when nothing else is
// said: not clickable, cards may leave and enter, hovered card highlighted.
func DefaultPolicy() Policy {
	return Policy{
		CanDragOut:       Always(true),
		CanDragIn:        Always(true),
		HighlightHovered: true,
	}
}

// NewPolicy applies opts on top of DefaultPolicy and validates the result.
func NewPolicy(opts ...PolicyOption) (Policy, error) {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	return p.normalized()
}

// normalized fills nil predicates with Always(true) and checks that every
// predicate survives a nil card.
func (p Policy) normalized() (Policy, error) {
	if p.CanDragOut == nil {
		p.CanDragOut = Always(true)
	}
	if p.CanDragIn == nil {
		p.CanDragIn = Always(true)
	}
	if err := probePredicate("drag out", p.CanDragOut); err != nil {
		return Policy{}, err
	}
	if err := probePredicate("drag in", p.CanDragIn); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func probePredicate(name string, pred CardPredicate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s predicate panics on nil card: %v", ErrInvalidPolicy, name, r)
		}
	}()
	pred(nil)
	return nil
}
