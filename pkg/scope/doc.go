// Package scope provides the owning concurrency scope for containers and
// subscriptions.
//
// A Scope is a cancellable unit of work: it exposes an operation to launch
// background tasks and a cancellation signal those tasks observe. Containers
// attach their event queue teardown to a scope with OnCleanup, and screens
// typically create one scope per session:
//
//	sc := scope.New(ctx, scope.WithName("checkout"))
//	defer sc.Close()
//
//	sc.Go(func(ctx context.Context) {
//	    <-ctx.Done()
//	})
//
// Cancellation is cooperative. Cancel only cancels the shared context; task
// bodies return at their next checkpoint and Wait blocks until they do.
package scope
