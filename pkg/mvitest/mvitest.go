package mvitest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/mvi/pkg/mvi"
)

// DefaultTimeout bounds every wait in this package unless a helper takes an
// explicit timeout.
var DefaultTimeout = 2 * time.Second

// Recorder collects values delivered from another goroutine.
// Use it as the callback of a collector and assert on what arrived.
type Recorder[T any] struct {
	mu      sync.Mutex
	values  []T
	changed chan struct{}
}

// NewRecorder returns an empty recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{changed: make(chan struct{})}
}

// Record appends v. It is safe to pass r.Record directly as a callback.
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	close(r.changed)
	r.changed = make(chan struct{})
	r.mu.Unlock()
}

// Values returns a copy of everything recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent value, or the zero value if none.
func (r *Recorder[T]) Last() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.values) == 0 {
		return zero
	}
	return r.values[len(r.values)-1]
}

// WaitLen waits until at least n values were recorded and returns them.
func (r *Recorder[T]) WaitLen(t testing.TB, n int) []T {
	t.Helper()
	return r.WaitFor(t, func(values []T) bool { return len(values) >= n })
}

// WaitFor waits until cond holds for the recorded values.
func (r *Recorder[T]) WaitFor(t testing.TB, cond func([]T) bool) []T {
	t.Helper()
	deadline := time.NewTimer(DefaultTimeout)
	defer deadline.Stop()

	for {
		r.mu.Lock()
		values := append([]T(nil), r.values...)
		changed := r.changed
		r.mu.Unlock()

		if cond(values) {
			return values
		}
		select {
		case <-changed:
		case <-deadline.C:
			t.Fatalf("recorder condition not met within %s; recorded %v", DefaultTimeout, values)
			return nil
		}
	}
}

// Quiet asserts that nothing new is recorded during d.
func (r *Recorder[T]) Quiet(t testing.TB, d time.Duration) {
	t.Helper()
	before := r.Len()
	time.Sleep(d)
	if after := r.Len(); after != before {
		t.Fatalf("expected no new values, got %v", r.Values()[before:])
	}
}

// RecordStates collects every value of flow into a recorder until the test
// ends.
func RecordStates[S any](t testing.TB, flow mvi.StateFlow[S]) *Recorder[S] {
	t.Helper()
	rec := NewRecorder[S]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = flow.Collect(ctx, rec.Record)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return rec
}

// WaitState waits until the current state satisfies cond and returns it.
func WaitState[S any](t testing.TB, flow mvi.StateFlow[S], cond func(S) bool) S {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	var found S
	errFound := errors.New("found")
	err := collectUntil(ctx, flow, func(s S) bool {
		if cond(s) {
			found = s
			return true
		}
		return false
	}, errFound)
	if !errors.Is(err, errFound) {
		t.Fatalf("state condition not met within %s; last state %+v", DefaultTimeout, flow.Value())
	}
	return found
}

func collectUntil[S any](ctx context.Context, flow mvi.StateFlow[S], stop func(S) bool, sentinel error) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	_ = flow.Collect(ctx, func(s S) {
		if stop(s) {
			cancel(sentinel)
		}
	})
	return context.Cause(ctx)
}

// NextEvent receives one event or fails the test after DefaultTimeout.
func NextEvent[E any](t testing.TB, flow mvi.EventFlow[E]) E {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	e, err := flow.Receive(ctx)
	if err != nil {
		t.Fatalf("no event received: %v", err)
	}
	return e
}

// NoEvent asserts that no event becomes available during d. An event that
// does arrive is consumed.
func NoEvent[E any](t testing.TB, flow mvi.EventFlow[E], d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	e, err := flow.Receive(ctx)
	if err == nil {
		t.Fatalf("unexpected event %+v", e)
	}
}
