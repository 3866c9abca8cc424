package mvi

import "log/slog"

// Option configures a container.
type Option func(*options)

type options struct {
	name     string
	logger   *slog.Logger
	observer Observer
	equal    any // func(S, S) bool, checked when the container is built

	eventCapacity int
	overflow      Overflow
}

// WithName names the container in logs, metrics and the inspector.
// Default: "container".
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the structured logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver adds an observer. Repeated calls combine observers.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if o.observer == nil {
			o.observer = obs
			return
		}
		o.observer = Observers(o.observer, obs)
	}
}

// WithEquals overrides the equality used to drop no-op state writes.
// The function type must match the container's state type; a mismatch
// panics when the container is created.
func WithEquals[S any](fn func(S, S) bool) Option {
	return func(o *options) {
		o.equal = fn
	}
}

// WithEventCapacity bounds the event queue. n <= 0 leaves it unbounded,
// which is the default; an unbounded queue grows without limit when
// receivers fall behind senders.
func WithEventCapacity(n int) Option {
	return func(o *options) {
		o.eventCapacity = n
	}
}

// WithOverflow sets the policy for a full bounded queue. Default: DropOldest.
func WithOverflow(policy Overflow) Option {
	return func(o *options) {
		o.overflow = policy
	}
}

func applyOptions(opts []Option) options {
	o := options{name: "container"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = NopObserver{}
	}
	return o
}
