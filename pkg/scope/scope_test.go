package scope

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLaunchRunsUntilCancel(t *testing.T) {
	s := New(context.Background(), WithName("test"))

	started := make(chan struct{})
	var stopped atomic.Bool
	ok := s.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		stopped.Store(true)
	})
	if !ok {
		t.Fatal("Launch on an active scope returned false")
	}

	<-started
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned %v", err)
	}
	if !stopped.Load() {
		t.Error("task did not observe cancellation")
	}
	if !errors.Is(s.Err(), ErrCancelled) {
		t.Errorf("Err() = %v, want ErrCancelled", s.Err())
	}
}

func TestLaunchAfterCancel(t *testing.T) {
	s := New(context.Background())
	s.Cancel()

	ran := false
	if s.Go(func(context.Context) { ran = true }) {
		t.Error("Launch after Cancel returned true")
	}
	if err := s.Wait(); err != nil {
		t.Errorf("Wait returned %v", err)
	}
	if ran {
		t.Error("task ran on a cancelled scope")
	}
}

func TestTaskErrorCancelsScope(t *testing.T) {
	s := New(context.Background())
	boom := errors.New("boom")

	s.Launch(func(context.Context) error { return boom })

	if err := s.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Wait() = %v, want %v", err, boom)
	}
	if !s.IsCancelled() {
		t.Error("scope still active after a task failed")
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err() = %v, want %v", s.Err(), boom)
	}
}

func TestCanceledTaskErrorIsIgnored(t *testing.T) {
	s := New(context.Background())
	s.Launch(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestCleanupOrder(t *testing.T) {
	s := New(context.Background())

	var order []int
	s.OnCleanup(func() { order = append(order, 1) })
	s.OnCleanup(func() { order = append(order, 2) })
	s.OnCleanup(func() { order = append(order, 3) })

	s.Cancel()

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("cleanup order = %v, want [3 2 1]", order)
	}

	// Registered after cancellation: runs immediately.
	late := false
	s.OnCleanup(func() { late = true })
	if !late {
		t.Error("cleanup registered after Cancel did not run")
	}
}

func TestParentCancelPropagates(t *testing.T) {
	parent := New(context.Background(), WithName("parent"))
	child := parent.Child("child")

	cleaned := make(chan struct{})
	child.OnCleanup(func() { close(cleaned) })

	parent.Cancel()

	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("child not cancelled with parent")
	}
	select {
	case <-cleaned:
	case <-time.After(time.Second):
		t.Fatal("child cleanups did not run")
	}
}

func TestChildCancelLeavesParent(t *testing.T) {
	parent := New(context.Background())
	defer parent.Cancel()

	child := parent.Child("child")
	child.Cancel()

	if parent.IsCancelled() {
		t.Error("cancelling the child cancelled the parent")
	}
}
