package observe

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/mvi/pkg/mvi"
	"github.com/vango-dev/mvi/pkg/scope"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := Prometheus(WithRegistry(reg), WithNamespace("test"))

	sc := scope.New(context.Background())
	defer sc.Cancel()
	c := mvi.New[int, string](sc, 0,
		mvi.WithName("counter"),
		mvi.WithObserver(obs),
		mvi.WithEventCapacity(1),
		mvi.WithOverflow(mvi.DropNewest),
	)

	c.UpdateState(func(n int) int { return n + 1 })
	c.UpdateState(func(n int) int { return n + 1 })
	c.UpdateState(func(n int) int { return n }) // no-op

	c.SendEvent("a")
	c.SendEvent("b") // dropped: queue full
	if _, err := c.UIEvent().Receive(context.Background()); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	tests := []struct {
		name      string
		collector prometheus.Collector
		want      float64
	}{
		{"updates", obs.stateUpdates.WithLabelValues("counter"), 2},
		{"version", obs.stateVersion.WithLabelValues("counter"), 2},
		{"sent", obs.eventsSent.WithLabelValues("counter"), 1},
		{"delivered", obs.eventsDeliv.WithLabelValues("counter"), 1},
		{"dropped", obs.eventsDropped.WithLabelValues("counter", "overflow"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.collector); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if n, err := testutil.GatherAndCount(reg, "test_state_updates_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}

func TestPrometheusSubscriptions(t *testing.T) {
	obs := Prometheus(WithRegistry(prometheus.NewRegistry()))

	obs.SubscriptionStarted("c")
	obs.SubscriptionStarted("c")
	obs.SubscriptionStopped("c")

	if got := testutil.ToFloat64(obs.subscriptions.WithLabelValues("c")); got != 1 {
		t.Errorf("active subscriptions = %v, want 1", got)
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := Logging(logger, slog.LevelDebug)

	obs.StateUpdated("screen", 3, 1)
	obs.EventDropped("screen", mvi.DropReasonClosed)

	out := buf.String()
	for _, want := range []string{
		"state updated", "container=screen", "version=3",
		"level=WARN", "event dropped", "reason=closed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type recordingProvider struct {
	noop.TracerProvider

	mu    sync.Mutex
	spans []string
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p}
}

func (p *recordingProvider) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.spans...)
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.provider.mu.Lock()
	t.provider.spans = append(t.provider.spans, name)
	t.provider.mu.Unlock()
	return t.Tracer.Start(ctx, name, opts...)
}

func TestTracingObserver(t *testing.T) {
	provider := &recordingProvider{}
	obs := Tracing(WithTracerProvider(provider))

	obs.StateUpdated("c", 1, 0)
	obs.EventSent("c")
	obs.EventDelivered("c") // not traced by default
	obs.EventDropped("c", mvi.DropReasonOverflow)

	got := provider.names()
	want := []string{"mvi.update_state", "mvi.send_event", "mvi.drop_event"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("spans = %v, want %v", got, want)
	}

	provider = &recordingProvider{}
	obs = Tracing(WithTracerProvider(provider), WithTraceDeliveries(true))
	obs.EventDelivered("c")
	obs.SubscriptionStarted("c")
	obs.SubscriptionStopped("c")
	if n := len(provider.names()); n != 3 {
		t.Errorf("delivery spans = %d, want 3", n)
	}
}

func TestTracingDefaultProvider(t *testing.T) {
	// The global provider is a no-op until configured; spans must not panic.
	obs := Tracing(WithTracerName("test"))
	obs.StateUpdated("c", 1, 0)
	obs.EventDropped("c", mvi.DropReasonClosed)
}
