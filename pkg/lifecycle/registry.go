package lifecycle

import (
	"log/slog"
	"sync"
)

// Event is a lifecycle transition reported by a host.
type Event uint8

const (
	OnCreate Event = iota + 1
	OnStart
	OnResume
	OnPause
	OnStop
	OnDestroy
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case OnCreate:
		return "OnCreate"
	case OnStart:
		return "OnStart"
	case OnResume:
		return "OnResume"
	case OnPause:
		return "OnPause"
	case OnStop:
		return "OnStop"
	case OnDestroy:
		return "OnDestroy"
	default:
		return "Unknown"
	}
}

// TargetState returns the state a host is in after the event.
func (e Event) TargetState() State {
	switch e {
	case OnCreate, OnStop:
		return Created
	case OnStart, OnPause:
		return Started
	case OnResume:
		return Resumed
	default:
		return Destroyed
	}
}

// Registry is a Lifecycle driven by explicit calls.
// It is meant for hosts without a lifecycle of their own, command-line
// drivers and tests.
type Registry struct {
	// dispatchMu serializes notifications so observers see states in order.
	dispatchMu sync.Mutex

	mu        sync.Mutex
	state     State
	observers map[uint64]func(State)
	nextID    uint64

	logger *slog.Logger
}

// NewRegistry returns a registry in the Initialized state.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		state:     Initialized,
		observers: make(map[uint64]func(State)),
		logger:    logger,
	}
}

// CurrentState implements Lifecycle.
func (r *Registry) CurrentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Observe implements Lifecycle. Observers must not call SetState or
// HandleEvent synchronously.
func (r *Registry) Observe(fn func(State)) func() {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	current := r.state
	r.mu.Unlock()

	fn(current)

	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// HandleEvent moves the registry to the event's target state.
func (r *Registry) HandleEvent(e Event) {
	r.SetState(e.TargetState())
}

// SetState moves the registry to s and notifies observers.
// Once Destroyed, further changes are ignored.
func (r *Registry) SetState(s State) {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	r.mu.Lock()
	prev := r.state
	if prev == s || (prev == Destroyed && s != Destroyed) {
		r.mu.Unlock()
		return
	}
	r.state = s
	observers := make([]func(State), 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	if s == Destroyed {
		r.observers = make(map[uint64]func(State))
	}
	r.mu.Unlock()

	r.logger.Debug("lifecycle state changed",
		slog.String("from", prev.String()),
		slog.String("to", s.String()),
	)

	for _, fn := range observers {
		fn(s)
	}
}
