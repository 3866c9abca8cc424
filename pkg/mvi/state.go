package mvi

import (
	"context"
	"sync/atomic"
)

// stateNode is one published value. next is closed when a newer node
// replaces this one.
type stateNode[S any] struct {
	value   S
	version uint64
	next    chan struct{}
}

// MutableStateFlow is a lock-free state cell with change notification.
//
// Writers publish through a compare-and-swap loop, so they never block on
// each other and no update is lost. Readers never block either: Value loads
// the current node, and collectors wait on that node's next channel.
type MutableStateFlow[S any] struct {
	cur atomic.Pointer[stateNode[S]]

	// equal decides whether a write changes the value. Equal writes are not
	// published.
	equal func(S, S) bool

	// onUpdate is called after every published write.
	onUpdate func(version uint64, retries int)

	// onSubscription is told when a partial-change subscription starts
	// (true) and stops (false).
	onSubscription func(active bool)
}

// NewStateFlow creates a state cell holding initial.
func NewStateFlow[S any](initial S) *MutableStateFlow[S] {
	f := &MutableStateFlow[S]{}
	f.cur.Store(&stateNode[S]{value: initial, next: make(chan struct{})})
	return f
}

// WithEquals sets the equality used to drop no-op writes and returns f.
// It must be called before the cell is shared.
func (f *MutableStateFlow[S]) WithEquals(fn func(S, S) bool) *MutableStateFlow[S] {
	f.equal = fn
	return f
}

// Value returns the current value.
func (f *MutableStateFlow[S]) Value() S {
	return f.cur.Load().value
}

// Version returns the number of published writes.
func (f *MutableStateFlow[S]) Version() uint64 {
	return f.cur.Load().version
}

// Snapshot returns the current value together with its version.
func (f *MutableStateFlow[S]) Snapshot() (S, uint64) {
	n := f.cur.Load()
	return n.value, n.version
}

// Update applies fn to the current value and publishes the result.
// It reports whether a new value was published; a result equal to the
// current value is dropped. If fn panics, the state is left unchanged.
func (f *MutableStateFlow[S]) Update(fn func(S) S) bool {
	for retries := 0; ; retries++ {
		old := f.cur.Load()
		value := fn(old.value)
		if f.equals(old.value, value) {
			return false
		}

		n := &stateNode[S]{value: value, version: old.version + 1, next: make(chan struct{})}
		if f.cur.CompareAndSwap(old, n) {
			close(old.next)
			if f.onUpdate != nil {
				f.onUpdate(n.version, retries)
			}
			return true
		}
	}
}

// Set publishes value unless it equals the current one.
func (f *MutableStateFlow[S]) Set(value S) bool {
	return f.Update(func(S) S { return value })
}

// Collect implements StateFlow.
func (f *MutableStateFlow[S]) Collect(ctx context.Context, fn func(S)) error {
	return f.collectNodes(ctx, func(n *stateNode[S]) { fn(n.value) })
}

// Changes implements StateFlow.
func (f *MutableStateFlow[S]) Changes(ctx context.Context) <-chan S {
	ch := make(chan S)
	go func() {
		defer close(ch)
		n := f.cur.Load()
		for {
			select {
			case ch <- n.value:
			case <-n.next:
				// Replaced before the consumer took it; offer the newer one.
				n = f.cur.Load()
				continue
			case <-ctx.Done():
				return
			}

			select {
			case <-n.next:
				n = f.cur.Load()
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (f *MutableStateFlow[S]) collectNodes(ctx context.Context, fn func(*stateNode[S])) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := f.cur.Load()
	for {
		fn(n)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-n.next:
			n = f.cur.Load()
		}
	}
}

func (f *MutableStateFlow[S]) subscriptionHook() func(bool) {
	return f.onSubscription
}

func (f *MutableStateFlow[S]) equals(a, b S) bool {
	if f.equal != nil {
		return f.equal(a, b)
	}
	return Equal(a, b)
}
