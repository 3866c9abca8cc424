// Package lifecycle abstracts the host lifecycle that scopes subscriptions.
//
// A host (a screen, a session, a window) reports its stage through the
// Lifecycle interface. RepeatOnLifecycle turns that signal into a restartable
// unit of work: the block runs while the host is at or above a threshold and
// is cancelled when it drops below, then started again on re-entry.
//
//	reg := lifecycle.NewRegistry(nil)
//	go lifecycle.RepeatOnLifecycle(ctx, reg, lifecycle.Started, func(ctx context.Context) {
//	    // runs while Started or Resumed
//	    <-ctx.Done()
//	})
//	reg.HandleEvent(lifecycle.OnCreate)
//	reg.HandleEvent(lifecycle.OnStart)
//
// The package does not model a full host state machine; Registry accepts any
// transition except leaving Destroyed.
package lifecycle
