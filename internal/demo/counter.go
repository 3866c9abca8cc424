// Package demo is a sample counter screen built on pkg/mvi. The mvi CLI
// drives it to show state collection, one-shot events and the inspector.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vango-dev/mvi/pkg/mvi"
	"github.com/vango-dev/mvi/pkg/scope"
)

// CounterState is the screen state.
type CounterState struct {
	Count   int    `json:"count"`
	Name    string `json:"name"`
	Saving  bool   `json:"saving"`
	Saved   int    `json:"saved"`
	History []int  `json:"history,omitempty"`
}

// CounterEvent is a one-shot effect for the screen.
type CounterEvent interface {
	counterEvent()
}

// ShowToast asks the host to show a transient message.
type ShowToast struct {
	Message string
}

// Navigate asks the host to open another screen.
type Navigate struct {
	Route string
}

func (ShowToast) counterEvent() {}
func (Navigate) counterEvent()  {}

// Intent is a user action handled by CounterModel.Dispatch.
type Intent interface {
	intent()
}

type (
	// Increment adds By to the count.
	Increment struct{ By int }

	// Rename changes the counter name.
	Rename struct{ Name string }

	// Reset clears the count and history.
	Reset struct{}

	// Save persists the count after SaveDelay and reports back with a toast.
	Save struct{}

	// OpenDetails navigates to the details screen.
	OpenDetails struct{}
)

func (Increment) intent()   {}
func (Rename) intent()      {}
func (Reset) intent()       {}
func (Save) intent()        {}
func (OpenDetails) intent() {}

// MaxHistory bounds CounterState.History.
const MaxHistory = 8

// CounterModel owns the counter container and turns intents into state
// changes and events.
type CounterModel struct {
	id        string
	scope     *scope.Scope
	logger    *slog.Logger
	container *mvi.Lazy[CounterState, CounterEvent]

	// SaveDelay simulates the latency of a save.
	SaveDelay time.Duration
}

// NewCounterModel creates a model whose container lives in sc. The container
// is created on first use.
func NewCounterModel(sc *scope.Scope, logger *slog.Logger, opts ...mvi.Option) *CounterModel {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	opts = append([]mvi.Option{
		mvi.WithName("counter"),
		mvi.WithLogger(logger),
	}, opts...)

	return &CounterModel{
		id:        id,
		scope:     sc,
		logger:    logger.With(slog.String("session", id)),
		container: mvi.NewLazy[CounterState, CounterEvent](sc, CounterState{Name: "counter"}, opts...),
		SaveDelay: 50 * time.Millisecond,
	}
}

// SessionID identifies this model instance in logs.
func (m *CounterModel) SessionID() string {
	return m.id
}

// Container returns the underlying container.
func (m *CounterModel) Container() *mvi.StateContainer[CounterState, CounterEvent] {
	return m.container.Value()
}

// UIState is the read-only state stream.
func (m *CounterModel) UIState() mvi.StateFlow[CounterState] {
	return m.Container().UIState()
}

// UIEvent is the read-only event stream.
func (m *CounterModel) UIEvent() mvi.EventFlow[CounterEvent] {
	return m.Container().UIEvent()
}

// Dispatch handles one intent.
func (m *CounterModel) Dispatch(in Intent) {
	c := m.Container()
	m.logger.Debug("intent", slog.String("type", fmt.Sprintf("%T", in)))

	switch in := in.(type) {
	case Increment:
		c.UpdateState(func(s CounterState) CounterState {
			s.Count += in.By
			s.History = appendHistory(s.History, s.Count)
			return s
		})
	case Rename:
		c.UpdateState(func(s CounterState) CounterState {
			s.Name = in.Name
			return s
		})
	case Reset:
		c.UpdateState(func(s CounterState) CounterState {
			s.Count = 0
			s.History = nil
			return s
		})
	case Save:
		m.save(c)
	case OpenDetails:
		c.SendEvent(Navigate{Route: "/counter/details"})
	}
}

func (m *CounterModel) save(c *mvi.StateContainer[CounterState, CounterEvent]) {
	var count int
	started := false
	c.UpdateState(func(s CounterState) CounterState {
		started = !s.Saving
		count = s.Count
		s.Saving = true
		return s
	})
	if !started {
		c.SendEvent(ShowToast{Message: "save already in progress"})
		return
	}

	launched := m.scope.Go(func(ctx context.Context) {
		select {
		case <-time.After(m.SaveDelay):
		case <-ctx.Done():
			return
		}
		c.UpdateState(func(s CounterState) CounterState {
			s.Saving = false
			s.Saved = count
			return s
		})
		c.SendEvent(ShowToast{Message: fmt.Sprintf("saved %d", count)})
	})
	if !launched {
		m.logger.Warn("save skipped, screen closed")
	}
}

func appendHistory(h []int, v int) []int {
	out := make([]int, 0, MaxHistory)
	if len(h) >= MaxHistory {
		h = h[len(h)-MaxHistory+1:]
	}
	out = append(out, h...)
	return append(out, v)
}
