package demo

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/mvi/pkg/lifecycle"
	"github.com/vango-dev/mvi/pkg/mvitest"
)

// lineWriter records every complete line written to it.
type lineWriter struct {
	mu      sync.Mutex
	partial string
	lines   *mvitest.Recorder[string]
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.partial += string(p)
	for {
		i := strings.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.lines.Record(w.partial[:i])
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func TestScreenRendersChanges(t *testing.T) {
	m, _ := newModel(t)
	reg := lifecycle.NewRegistry(nil)
	reg.HandleEvent(lifecycle.OnCreate)
	reg.HandleEvent(lifecycle.OnStart)
	t.Cleanup(func() { reg.HandleEvent(lifecycle.OnDestroy) })

	w := &lineWriter{lines: mvitest.NewRecorder[string]()}
	sub := NewScreen(m, reg, lifecycle.Started, w).Start(context.Background())
	defer sub.Stop()

	w.lines.WaitFor(t, func(l []string) bool { return contains(l, "counter: 0") })

	m.Dispatch(Increment{By: 1})
	w.lines.WaitFor(t, func(l []string) bool { return contains(l, "counter: 1") })

	m.Dispatch(OpenDetails{})
	w.lines.WaitFor(t, func(l []string) bool { return contains(l, "navigate: /counter/details") })

	m.Dispatch(Save{})
	w.lines.WaitFor(t, func(l []string) bool { return contains(l, "last saved: 1") })
	w.lines.WaitFor(t, func(l []string) bool { return contains(l, "toast: saved 1") })
}

func TestScreenPausedWhileStopped(t *testing.T) {
	m, _ := newModel(t)
	reg := lifecycle.NewRegistry(nil)
	reg.HandleEvent(lifecycle.OnCreate)
	reg.HandleEvent(lifecycle.OnStart)
	t.Cleanup(func() { reg.HandleEvent(lifecycle.OnDestroy) })

	w := &lineWriter{lines: mvitest.NewRecorder[string]()}
	sub := NewScreen(m, reg, lifecycle.Started, w).Start(context.Background())
	defer sub.Stop()
	w.lines.WaitLen(t, 1)

	reg.HandleEvent(lifecycle.OnStop)
	time.Sleep(20 * time.Millisecond)
	before := w.lines.Len()

	m.Dispatch(OpenDetails{})
	w.lines.Quiet(t, 30*time.Millisecond)
	if w.lines.Len() != before {
		t.Fatal("screen rendered while stopped")
	}

	reg.HandleEvent(lifecycle.OnStart)
	w.lines.WaitFor(t, func(l []string) bool { return contains(l, "navigate: /counter/details") })
}
