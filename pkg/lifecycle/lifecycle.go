package lifecycle

import (
	"context"
	"fmt"
	"sync"
)

// State is a lifecycle stage. States are ordered: a host moves up through
// Created, Started and Resumed and back down again, and ends at Destroyed.
type State int32

const (
	Destroyed State = iota
	Initialized
	Created
	Started
	Resumed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Destroyed:
		return "Destroyed"
	case Initialized:
		return "Initialized"
	case Created:
		return "Created"
	case Started:
		return "Started"
	case Resumed:
		return "Resumed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// IsAtLeast reports whether s is the same as or later than min.
func (s State) IsAtLeast(min State) bool {
	return s >= min
}

// ParseState parses the name returned by String (case-sensitive).
func ParseState(name string) (State, error) {
	for s := Destroyed; s <= Resumed; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return Destroyed, fmt.Errorf("lifecycle: unknown state %q", name)
}

// Lifecycle is the host-provided signal that decides when subscriptions run.
//
// Observe invokes fn with the current state right away and then after every
// change, in order. The returned function stops the observation.
// Implementations must not call fn concurrently for one observer.
type Lifecycle interface {
	CurrentState() State
	Observe(fn func(State)) (cancel func())
}

// RepeatOnLifecycle runs block each time lc enters min or a later state.
//
// block receives a context that is cancelled as soon as lc falls below min;
// RepeatOnLifecycle waits for block to return before it can start it again.
// It returns when lc reaches Destroyed or ctx is done, after the running
// block (if any) has returned.
//
// min must be Created or later.
func RepeatOnLifecycle(ctx context.Context, lc Lifecycle, min State, block func(ctx context.Context)) {
	if min <= Initialized {
		panic("lifecycle: RepeatOnLifecycle cannot start work with the Initialized or Destroyed state")
	}
	if lc.CurrentState() == Destroyed {
		return
	}

	var (
		mu      sync.Mutex
		pending []State
	)
	wake := make(chan struct{}, 1)
	stopObserving := lc.Observe(func(s State) {
		mu.Lock()
		pending = append(pending, s)
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	defer stopObserving()

	var (
		runCancel context.CancelFunc
		runDone   chan struct{}
	)
	stop := func() {
		if runCancel == nil {
			return
		}
		runCancel()
		<-runDone
		runCancel, runDone = nil, nil
	}
	defer stop()

	for {
		mu.Lock()
		states := pending
		pending = nil
		mu.Unlock()

		// Every transition is replayed so that a quick drop and return
		// still restarts block.
		for _, s := range states {
			switch {
			case s == Destroyed:
				return
			case s.IsAtLeast(min) && runCancel == nil:
				runCtx, cancel := context.WithCancel(ctx)
				done := make(chan struct{})
				runCancel, runDone = cancel, done
				go func() {
					defer close(done)
					block(runCtx)
				}()
			case !s.IsAtLeast(min):
				stop()
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-wake:
		}
	}
}
