package mvi

import (
	"context"
	"sync"
)

// Overflow selects what a bounded event queue does when it is full.
type Overflow uint8

const (
	// DropOldest discards the event at the head of the queue.
	DropOldest Overflow = iota
	// DropNewest discards the event being sent.
	DropNewest
)

// String returns the policy name used in configuration files.
func (o Overflow) String() string {
	switch o {
	case DropOldest:
		return "drop-oldest"
	case DropNewest:
		return "drop-newest"
	default:
		return "unknown"
	}
}

// ParseOverflow parses the names returned by String.
func ParseOverflow(name string) (Overflow, bool) {
	switch name {
	case "drop-oldest", "":
		return DropOldest, true
	case "drop-newest":
		return DropNewest, true
	default:
		return DropOldest, false
	}
}

// DropReason says why an event was not delivered.
type DropReason string

const (
	DropReasonOverflow DropReason = "overflow"
	DropReasonClosed   DropReason = "closed"
)

// eventQueue is a FIFO of one-shot events shared by competing receivers.
// Capacity <= 0 means unbounded.
type eventQueue[E any] struct {
	mu       sync.Mutex
	items    []E
	capacity int
	overflow Overflow
	closed   bool

	// ready is closed and replaced whenever items are added or the queue
	// closes, waking every blocked receiver.
	ready chan struct{}

	// launch runs adapter goroutines. It returns false once the owner is
	// gone.
	launch func(func(ctx context.Context)) bool

	onDelivered func()
	onDropped   func(DropReason)
}

func newEventQueue[E any](capacity int, overflow Overflow) *eventQueue[E] {
	return &eventQueue[E]{
		capacity: capacity,
		overflow: overflow,
		ready:    make(chan struct{}),
		launch: func(fn func(context.Context)) bool {
			go fn(context.Background())
			return true
		},
	}
}

// push enqueues e and reports whether it was accepted. It never blocks
// beyond the queue mutex.
func (q *eventQueue[E]) push(e E) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.dropped(DropReasonClosed)
		return false
	}

	dropped := false
	if q.capacity > 0 && len(q.items) >= q.capacity {
		dropped = true
		if q.overflow == DropNewest {
			q.mu.Unlock()
			q.dropped(DropReasonOverflow)
			return false
		}
		var zero E
		q.items[0] = zero
		q.items = q.items[1:]
	}
	q.items = append(q.items, e)
	q.wakeLocked()
	q.mu.Unlock()

	if dropped {
		q.dropped(DropReasonOverflow)
	}
	return true
}

// pushFront returns an event that was taken but not handed over.
func (q *eventQueue[E]) pushFront(e E) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.dropped(DropReasonClosed)
		return
	}
	q.items = append(q.items, e)
	copy(q.items[1:], q.items)
	q.items[0] = e
	q.wakeLocked()
	q.mu.Unlock()
}

// take removes the head of the queue, waiting for one if necessary.
func (q *eventQueue[E]) take(ctx context.Context) (E, error) {
	var zero E
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return zero, ErrClosed
		}
		if len(q.items) > 0 {
			e := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return e, nil
		}
		wait := q.ready
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-wait:
		}
	}
}

// close discards pending events and wakes every receiver with ErrClosed.
func (q *eventQueue[E]) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := len(q.items)
	q.items = nil
	q.wakeLocked()
	q.mu.Unlock()

	for i := 0; i < pending; i++ {
		q.dropped(DropReasonClosed)
	}
}

func (q *eventQueue[E]) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *eventQueue[E]) wakeLocked() {
	close(q.ready)
	q.ready = make(chan struct{})
}

func (q *eventQueue[E]) delivered() {
	if q.onDelivered != nil {
		q.onDelivered()
	}
}

func (q *eventQueue[E]) dropped(reason DropReason) {
	if q.onDropped != nil {
		q.onDropped(reason)
	}
}

// Receive implements EventFlow.
func (q *eventQueue[E]) Receive(ctx context.Context) (E, error) {
	e, err := q.take(ctx)
	if err == nil {
		q.delivered()
	}
	return e, err
}

// Collect implements EventFlow.
func (q *eventQueue[E]) Collect(ctx context.Context, fn func(E)) error {
	for {
		e, err := q.Receive(ctx)
		if err != nil {
			return err
		}
		fn(e)
	}
}

// Events implements EventFlow.
func (q *eventQueue[E]) Events(ctx context.Context) <-chan E {
	ch := make(chan E)
	ok := q.launch(func(owner context.Context) {
		defer close(ch)
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(owner, cancel)
		defer stop()

		for {
			e, err := q.take(ctx)
			if err != nil {
				return
			}
			select {
			case ch <- e:
				q.delivered()
			case <-ctx.Done():
				q.pushFront(e)
				return
			}
		}
	})
	if !ok {
		close(ch)
	}
	return ch
}
