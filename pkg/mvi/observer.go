package mvi

// Observer receives container activity. Methods are called synchronously on
// the goroutine that caused them and must return quickly.
type Observer interface {
	// StateUpdated is called after a state write is published. retries is the
	// number of compare-and-swap attempts lost to concurrent writers.
	StateUpdated(container string, version uint64, retries int)

	// EventSent is called when an event is accepted into the queue.
	EventSent(container string)

	// EventDelivered is called when a receiver takes an event.
	EventDelivered(container string)

	// EventDropped is called when an event is discarded.
	EventDropped(container string, reason DropReason)

	// SubscriptionStarted and SubscriptionStopped bracket each active
	// partial-change subscription.
	SubscriptionStarted(container string)
	SubscriptionStopped(container string)
}

// NopObserver ignores everything. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) StateUpdated(string, uint64, int) {}
func (NopObserver) EventSent(string)                 {}
func (NopObserver) EventDelivered(string)            {}
func (NopObserver) EventDropped(string, DropReason)  {}
func (NopObserver) SubscriptionStarted(string)       {}
func (NopObserver) SubscriptionStopped(string)       {}

// Observers fans calls out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return NopObserver{}
	case 1:
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) StateUpdated(c string, version uint64, retries int) {
	for _, o := range m {
		o.StateUpdated(c, version, retries)
	}
}

func (m multiObserver) EventSent(c string) {
	for _, o := range m {
		o.EventSent(c)
	}
}

func (m multiObserver) EventDelivered(c string) {
	for _, o := range m {
		o.EventDelivered(c)
	}
}

func (m multiObserver) EventDropped(c string, reason DropReason) {
	for _, o := range m {
		o.EventDropped(c, reason)
	}
}

func (m multiObserver) SubscriptionStarted(c string) {
	for _, o := range m {
		o.SubscriptionStarted(c)
	}
}

func (m multiObserver) SubscriptionStopped(c string) {
	for _, o := range m {
		o.SubscriptionStopped(c)
	}
}
