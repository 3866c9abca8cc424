package mvi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/mvi/pkg/scope"
)

// StateContainer holds the current UI state and the one-shot event queue of
// a screen. It implements MutableContainer.
//
// The container belongs to a scope. When the scope is cancelled the event
// queue closes: pending events are discarded, receivers return ErrClosed and
// later SendEvent calls are dropped silently. The state stays readable.
type StateContainer[S UIState, E UIEvent] struct {
	name     string
	logger   *slog.Logger
	observer Observer
	scope    *scope.Scope

	state  *MutableStateFlow[S]
	events *eventQueue[E]
}

// New creates a container owned by sc holding initial.
func New[S UIState, E UIEvent](sc *scope.Scope, initial S, opts ...Option) *StateContainer[S, E] {
	if sc == nil {
		panic("mvi: New requires a scope")
	}
	o := applyOptions(opts)

	c := &StateContainer[S, E]{
		name:     o.name,
		logger:   o.logger.With(slog.String("container", o.name)),
		observer: o.observer,
		scope:    sc,
		state:    NewStateFlow(initial),
		events:   newEventQueue[E](o.eventCapacity, o.overflow),
	}

	if o.equal != nil {
		fn, ok := o.equal.(func(S, S) bool)
		if !ok {
			panic(fmt.Sprintf("mvi: WithEquals function %T does not match state type %T", o.equal, initial))
		}
		c.state.WithEquals(fn)
	}

	c.state.onUpdate = func(version uint64, retries int) {
		c.observer.StateUpdated(c.name, version, retries)
	}
	c.state.onSubscription = func(active bool) {
		if active {
			c.observer.SubscriptionStarted(c.name)
		} else {
			c.observer.SubscriptionStopped(c.name)
		}
	}
	c.events.onDelivered = func() {
		c.observer.EventDelivered(c.name)
	}
	c.events.onDropped = func(reason DropReason) {
		c.logger.Warn("event dropped", slog.String("reason", string(reason)))
		c.observer.EventDropped(c.name, reason)
	}
	c.events.launch = sc.Go

	sc.OnCleanup(c.close)

	c.logger.Debug("container created",
		slog.Int("event_capacity", o.eventCapacity),
		slog.String("overflow", o.overflow.String()),
	)
	return c
}

// Name returns the container name.
func (c *StateContainer[S, E]) Name() string {
	return c.name
}

// Scope returns the owning scope.
func (c *StateContainer[S, E]) Scope() *scope.Scope {
	return c.scope
}

// UIState implements Container.
func (c *StateContainer[S, E]) UIState() StateFlow[S] {
	return c.state
}

// UIEvent implements Container.
func (c *StateContainer[S, E]) UIEvent() EventFlow[E] {
	return c.events
}

// State is shorthand for UIState().Value().
func (c *StateContainer[S, E]) State() S {
	return c.state.Value()
}

// UpdateState implements MutableContainer. A panic in fn propagates to the
// caller and leaves the state unchanged.
func (c *StateContainer[S, E]) UpdateState(fn func(S) S) {
	c.state.Update(fn)
}

// SendEvent implements MutableContainer. It never blocks: the event is
// queued for the next receiver, or dropped if the scope is gone or a bounded
// queue rejects it.
func (c *StateContainer[S, E]) SendEvent(e E) {
	if c.scope.IsCancelled() {
		// Parent cancellation closes the queue asynchronously; don't race it.
		c.events.close()
		c.events.dropped(DropReasonClosed)
		return
	}
	if c.events.push(e) {
		c.observer.EventSent(c.name)
	}
}

// Pending returns the number of queued, undelivered events.
func (c *StateContainer[S, E]) Pending() int {
	return c.events.size()
}

// Snapshot returns the current state and its version.
func (c *StateContainer[S, E]) Snapshot() (any, uint64) {
	return c.state.Snapshot()
}

// Watch calls fn with the current state and version and then on every
// change until ctx is done.
func (c *StateContainer[S, E]) Watch(ctx context.Context, fn func(state any, version uint64)) error {
	return c.state.collectNodes(ctx, func(n *stateNode[S]) { fn(n.value, n.version) })
}

func (c *StateContainer[S, E]) close() {
	c.events.close()
	c.logger.Debug("container closed", slog.Uint64("version", c.state.Version()))
}

// Lazy creates its container on first use and returns the same instance
// afterwards.
type Lazy[S UIState, E UIEvent] struct {
	once        sync.Once
	create      func() *StateContainer[S, E]
	value       *StateContainer[S, E]
	initialized atomic.Bool
}

// NewLazy returns a memoized container constructor. Nothing is allocated
// until Value is first called.
func NewLazy[S UIState, E UIEvent](sc *scope.Scope, initial S, opts ...Option) *Lazy[S, E] {
	return &Lazy[S, E]{
		create: func() *StateContainer[S, E] {
			return New[S, E](sc, initial, opts...)
		},
	}
}

// Value returns the container, creating it on the first call.
func (l *Lazy[S, E]) Value() *StateContainer[S, E] {
	l.once.Do(func() {
		l.value = l.create()
		l.create = nil
		l.initialized.Store(true)
	})
	return l.value
}

// IsInitialized reports whether Value has created the container.
func (l *Lazy[S, E]) IsInitialized() bool {
	return l.initialized.Load()
}

var (
	_ MutableContainer[struct{}, struct{}] = (*StateContainer[struct{}, struct{}])(nil)
	_ StateFlow[int]                       = (*MutableStateFlow[int])(nil)
	_ EventFlow[int]                       = (*eventQueue[int])(nil)
)
