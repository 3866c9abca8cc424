package mvi

import "context"

// UIState marks a type as a UI state. It has no methods: any immutable
// value type qualifies. Treat states as values and derive new ones in
// UpdateState instead of mutating them in place.
type UIState interface{}

// UIEvent marks a type as a one-shot UI event such as "show toast" or
// "navigate". Events are delivered once and never replayed.
type UIEvent interface{}

// Container is the read side of a state/event container.
type Container[S UIState, E UIEvent] interface {
	// UIState returns the current-state cell. New readers see the current
	// value immediately.
	UIState() StateFlow[S]

	// UIEvent returns the one-shot event stream.
	UIEvent() EventFlow[E]
}

// MutableContainer is the write side used by orchestrators.
type MutableContainer[S UIState, E UIEvent] interface {
	Container[S, E]

	// UpdateState applies fn to the current state and atomically replaces
	// it. fn may be invoked more than once under contention and must be pure.
	UpdateState(fn func(S) S)

	// SendEvent enqueues e without blocking the caller.
	SendEvent(e E)
}

// StateFlow is a read-only cell that always holds a value.
type StateFlow[S any] interface {
	// Value returns the current value without blocking.
	Value() S

	// Version returns the number of accepted writes.
	Version() uint64

	// Collect calls fn with the current value and then with every newer
	// value until ctx is done. Values written faster than fn runs are
	// conflated: fn sees the latest. Collect returns ctx.Err().
	Collect(ctx context.Context, fn func(S)) error

	// Changes is a channel form of Collect. The channel is closed when ctx
	// is done.
	Changes(ctx context.Context) <-chan S
}

// EventFlow is a one-shot event stream. Each event is taken by exactly one
// receiver.
type EventFlow[E any] interface {
	// Receive blocks until an event is available, ctx is done, or the
	// container is closed (ErrClosed).
	Receive(ctx context.Context) (E, error)

	// Collect calls fn for every event until ctx is done or the container is
	// closed and returns the error that stopped it.
	Collect(ctx context.Context, fn func(E)) error

	// Events is a channel form of Receive. An event taken while its consumer
	// stopped listening is put back at the head of the queue.
	Events(ctx context.Context) <-chan E
}
