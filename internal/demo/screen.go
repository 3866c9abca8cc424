package demo

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vango-dev/mvi/pkg/lifecycle"
	"github.com/vango-dev/mvi/pkg/mvi"
)

// Screen renders a CounterModel as text lines while its lifecycle is at
// least the configured state.
type Screen struct {
	model *CounterModel
	lc    lifecycle.Lifecycle
	min   lifecycle.State

	mu  sync.Mutex
	out io.Writer
}

// NewScreen creates a screen writing to w.
func NewScreen(model *CounterModel, lc lifecycle.Lifecycle, min lifecycle.State, w io.Writer) *Screen {
	return &Screen{model: model, lc: lc, min: min, out: w}
}

// Start subscribes to the model. Each field group is rendered only when it
// changes; events are rendered as they are received.
func (s *Screen) Start(ctx context.Context) *mvi.Subscription {
	return mvi.CollectStateWithLifecycle(ctx, s.model.UIState(), s.lc, s.min,
		func(col *mvi.StateCollector[CounterState]) {
			mvi.CollectChangesOf2(col,
				func(st CounterState) string { return st.Name },
				func(st CounterState) int { return st.Count },
				func(name string, count int) { s.printf("%s: %d", name, count) },
			)
			mvi.CollectChangesOf2(col,
				func(st CounterState) bool { return st.Saving },
				func(st CounterState) int { return st.Saved },
				func(saving bool, saved int) {
					if saving {
						s.printf("saving...")
						return
					}
					if saved > 0 {
						s.printf("last saved: %d", saved)
					}
				},
			)
			col.Launch(func(ctx context.Context) {
				_ = s.model.UIEvent().Collect(ctx, s.render)
			})
		})
}

func (s *Screen) render(e CounterEvent) {
	switch e := e.(type) {
	case ShowToast:
		s.printf("toast: %s", e.Message)
	case Navigate:
		s.printf("navigate: %s", e.Route)
	}
}

func (s *Screen) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format+"\n", args...)
}
