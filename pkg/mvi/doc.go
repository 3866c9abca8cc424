// Package mvi implements a state/event container for unidirectional UI data
// flow (Model-View-Intent).
//
// A StateContainer holds exactly one current state and a queue of one-shot
// events. Orchestrators write through UpdateState and SendEvent; presentation
// code reads UIState, which always has a value, and UIEvent, which hands each
// event to exactly one receiver.
//
//	type Screen struct {
//	    Count int
//	    Name  string
//	}
//
//	type Toast struct{ Text string }
//
//	sc := scope.New(ctx)
//	c := mvi.New[Screen, Toast](sc, Screen{Name: "x"})
//
//	c.UpdateState(func(s Screen) Screen {
//	    s.Count++
//	    return s
//	})
//	c.SendEvent(Toast{Text: "saved"})
//
// # Partial Changes
//
// CollectStateWithLifecycle ties collectors to a host lifecycle. Each
// CollectChangesOf call runs independently and fires only when its selected
// projection changes:
//
//	mvi.CollectStateWithLifecycle(ctx, c.UIState(), host, lifecycle.Started,
//	    func(col *mvi.StateCollector[Screen]) {
//	        mvi.CollectChangesOf(col, func(s Screen) string { return s.Name },
//	            func(name string) { render(name) })
//	    })
//
// Collectors stop when the host drops below the threshold and start over
// when it comes back, so the first value after a restart always fires.
//
// # Event Queue Capacity
//
// The event queue is unbounded unless WithEventCapacity is given. A bounded
// queue never blocks senders; WithOverflow chooses which event to drop.
package mvi
