package mvi

import (
	"context"
	"sync"

	"github.com/vango-dev/mvi/pkg/lifecycle"
)

// Subscription is a running CollectStateWithLifecycle call.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the subscription and waits for its collectors to return.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Done is closed once the subscription has fully stopped, either through
// Stop, the parent context, or the lifecycle reaching Destroyed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// CollectStateWithLifecycle runs action every time lc enters min or a later
// state. action receives a fresh StateCollector and registers partial
// collectors on it with CollectChangesOf and friends. Those collectors are
// cancelled when lc falls below min and registered again, from scratch, on
// the next activation.
func CollectStateWithLifecycle[S any](
	ctx context.Context,
	flow StateFlow[S],
	lc lifecycle.Lifecycle,
	min lifecycle.State,
	action func(c *StateCollector[S]),
) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		lifecycle.RepeatOnLifecycle(ctx, lc, min, func(runCtx context.Context) {
			c := newStateCollector(runCtx, flow)
			action(c)
			c.wait()
		})
	}()
	return sub
}

// StateCollector groups the collectors of one lifecycle activation.
type StateCollector[S any] struct {
	ctx  context.Context
	flow StateFlow[S]
	hook func(active bool)
	wg   sync.WaitGroup
}

func newStateCollector[S any](ctx context.Context, flow StateFlow[S]) *StateCollector[S] {
	c := &StateCollector[S]{ctx: ctx, flow: flow}
	if h, ok := flow.(interface{ subscriptionHook() func(bool) }); ok {
		c.hook = h.subscriptionHook()
	}
	return c
}

// NewStateCollector returns a collector bound to ctx rather than to a
// lifecycle. Collectors registered on it run until ctx is done; Wait blocks
// until they have returned.
func NewStateCollector[S any](ctx context.Context, flow StateFlow[S]) *StateCollector[S] {
	return newStateCollector(ctx, flow)
}

// Context returns the context of the current activation.
func (c *StateCollector[S]) Context() context.Context {
	return c.ctx
}

// Flow returns the observed state flow.
func (c *StateCollector[S]) Flow() StateFlow[S] {
	return c.flow
}

// Launch runs fn in its own goroutine for the rest of the activation.
func (c *StateCollector[S]) Launch(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if c.hook != nil {
			c.hook(true)
			defer c.hook(false)
		}
		fn(c.ctx)
	}()
}

// Wait blocks until every launched collector has returned.
func (c *StateCollector[S]) Wait() {
	c.wait()
}

func (c *StateCollector[S]) wait() {
	c.wg.Wait()
}

// CollectChangesBy calls action with key(state) for the first state and
// then whenever the key differs structurally from the previous one.
// key can return any projection, including a struct of several fields.
func CollectChangesBy[S, K any](c *StateCollector[S], key func(S) K, action func(K)) {
	c.Launch(func(ctx context.Context) {
		var (
			prev K
			seen bool
		)
		_ = c.flow.Collect(ctx, func(s S) {
			k := key(s)
			if seen && Equal(prev, k) {
				return
			}
			prev, seen = k, true
			action(k)
		})
	})
}

// Projection is an ordered tuple of selected values. Two projections are
// equal when every component is structurally equal.
type Projection []any

func component[T any](p Projection, i int) T {
	v, _ := p[i].(T)
	return v
}

// CollectChangesOf calls action with a(state) whenever it changes.
func CollectChangesOf[S, A any](c *StateCollector[S], a func(S) A, action func(A)) {
	CollectChangesBy(c, a, action)
}

// CollectChangesOf2 calls action with both selected values whenever either
// changes.
func CollectChangesOf2[S, A, B any](c *StateCollector[S], a func(S) A, b func(S) B, action func(A, B)) {
	CollectChangesBy(c,
		func(s S) Projection { return Projection{a(s), b(s)} },
		func(p Projection) { action(component[A](p, 0), component[B](p, 1)) },
	)
}

// CollectChangesOf3 is CollectChangesOf2 for three selectors.
func CollectChangesOf3[S, A, B, C any](
	c *StateCollector[S],
	a func(S) A, b func(S) B, cc func(S) C,
	action func(A, B, C),
) {
	CollectChangesBy(c,
		func(s S) Projection { return Projection{a(s), b(s), cc(s)} },
		func(p Projection) {
			action(component[A](p, 0), component[B](p, 1), component[C](p, 2))
		},
	)
}

// CollectChangesOf4 is CollectChangesOf2 for four selectors.
func CollectChangesOf4[S, A, B, C, D any](
	c *StateCollector[S],
	a func(S) A, b func(S) B, cc func(S) C, d func(S) D,
	action func(A, B, C, D),
) {
	CollectChangesBy(c,
		func(s S) Projection { return Projection{a(s), b(s), cc(s), d(s)} },
		func(p Projection) {
			action(component[A](p, 0), component[B](p, 1), component[C](p, 2), component[D](p, 3))
		},
	)
}

// CollectChangesOf5 is CollectChangesOf2 for five selectors.
func CollectChangesOf5[S, A, B, C, D, E any](
	c *StateCollector[S],
	a func(S) A, b func(S) B, cc func(S) C, d func(S) D, e func(S) E,
	action func(A, B, C, D, E),
) {
	CollectChangesBy(c,
		func(s S) Projection { return Projection{a(s), b(s), cc(s), d(s), e(s)} },
		func(p Projection) {
			action(component[A](p, 0), component[B](p, 1), component[C](p, 2),
				component[D](p, 3), component[E](p, 4))
		},
	)
}

// CollectChangesOf6 is CollectChangesOf2 for six selectors. For more fields,
// select a struct with CollectChangesBy.
func CollectChangesOf6[S, A, B, C, D, E, F any](
	c *StateCollector[S],
	a func(S) A, b func(S) B, cc func(S) C, d func(S) D, e func(S) E, f func(S) F,
	action func(A, B, C, D, E, F),
) {
	CollectChangesBy(c,
		func(s S) Projection { return Projection{a(s), b(s), cc(s), d(s), e(s), f(s)} },
		func(p Projection) {
			action(component[A](p, 0), component[B](p, 1), component[C](p, 2),
				component[D](p, 3), component[E](p, 4), component[F](p, 5))
		},
	)
}
