package scope

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrCancelled is the cancellation cause recorded when Cancel is called.
var ErrCancelled = errors.New("scope: cancelled")

// Scope is a cancellable unit of concurrent work.
//
// Background tasks are started with Launch and run as children of the scope:
// cancelling the scope cancels the context every task receives. A task that
// returns a non-nil error cancels the scope as well.
//
// Scopes form a hierarchy through Child. Cancelling a parent cancels all of
// its children; cancelling a child leaves the parent running.
type Scope struct {
	name   string
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc
	group  *errgroup.Group

	// cleanups run in LIFO order once the scope is cancelled.
	cleanups   []func()
	cleanupsMu sync.Mutex

	cancelled   atomic.Bool
	cleanupOnce sync.Once
}

// Option configures a Scope.
type Option func(*options)

type options struct {
	name   string
	logger *slog.Logger
}

// WithName sets the name used in log records.
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

// New creates a scope whose lifetime is bounded by parent.
func New(parent context.Context, opts ...Option) *Scope {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancelCause(parent)
	s := &Scope{
		name:   o.name,
		logger: o.logger,
		ctx:    ctx,
		cancel: cancel,
		group:  new(errgroup.Group),
	}
	context.AfterFunc(ctx, func() { s.cleanupOnce.Do(s.runCleanups) })
	return s
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

// Context returns the context shared by every task in the scope.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Done returns a channel closed when the scope is cancelled.
func (s *Scope) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Err returns nil while the scope is active, otherwise the cause of its
// cancellation (ErrCancelled, the parent's cause, or the first task error).
func (s *Scope) Err() error {
	if s.ctx.Err() == nil {
		return nil
	}
	return context.Cause(s.ctx)
}

// IsCancelled reports whether the scope has been cancelled.
func (s *Scope) IsCancelled() bool {
	return s.ctx.Err() != nil
}

// Launch runs fn as a background task of the scope.
// It returns false without running fn if the scope is already cancelled.
func (s *Scope) Launch(fn func(ctx context.Context) error) bool {
	if s.ctx.Err() != nil {
		return false
	}

	s.group.Go(func() error {
		err := fn(s.ctx)
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrCancelled) {
			return nil
		}
		s.logger.Error("scope task failed",
			slog.String("scope", s.name),
			slog.Any("error", err),
		)
		s.cancel(err)
		s.cleanupOnce.Do(s.runCleanups)
		return err
	})
	return true
}

// Go is Launch for tasks that cannot fail.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	return s.Launch(func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

// OnCleanup registers fn to run when the scope is cancelled.
// If the scope is already cancelled, fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.cancelled.Load() {
		fn()
		return
	}

	s.cleanupsMu.Lock()
	if s.cancelled.Load() {
		s.cleanupsMu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.cleanupsMu.Unlock()
}

// Cancel cancels the scope and every task launched in it. Registered
// cleanups have run by the time Cancel returns.
// Calling Cancel more than once is safe.
func (s *Scope) Cancel() {
	s.cancel(ErrCancelled)
	s.cleanupOnce.Do(s.runCleanups)
}

// Wait blocks until every launched task has returned and returns the first
// task error, if any. Wait does not cancel the scope.
func (s *Scope) Wait() error {
	return s.group.Wait()
}

// Close cancels the scope and waits for its tasks.
func (s *Scope) Close() error {
	s.Cancel()
	return s.Wait()
}

// Child creates a scope cancelled together with s.
func (s *Scope) Child(name string) *Scope {
	return New(s.ctx, WithName(name), WithLogger(s.logger))
}

func (s *Scope) runCleanups() {
	s.cleanupsMu.Lock()
	s.cancelled.Store(true)
	cleanups := s.cleanups
	s.cleanups = nil
	s.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	s.logger.Debug("scope cancelled",
		slog.String("scope", s.name),
		slog.Int("cleanups", len(cleanups)),
	)
}
