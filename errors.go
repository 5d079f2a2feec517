package cardtable

import "errors"

var (
	// ErrInvalidPolicy is returned when a Policy cannot be used, usually
	// because one of its predicates panics on a nil card.
	ErrInvalidPolicy = errors.New("cardtable: invalid policy")

	// ErrNotImplemented marks a container that lacks an operation a feature
	// it was registered with requires (multi-drag without CardsAt).
	ErrNotImplemented = errors.New("cardtable: not implemented")

	// ErrUnknownContainer is returned for containers that are not registered
	// with the manager.
	ErrUnknownContainer = errors.New("cardtable: unknown container")

	// ErrDuplicateContainer is returned when a container is registered twice.
	ErrDuplicateContainer = errors.New("cardtable: container already registered")

	// ErrContainerBusy is returned when a container holding a detached card's
	// source is unregistered mid-drag.
	ErrContainerBusy = errors.New("cardtable: container is part of an active drag")

	// ErrNotEnoughCards is returned when a draw or distribution asks for more
	// cards than a set holds.
	ErrNotEnoughCards = errors.New("cardtable: not enough cards")
)
