package observe

import (
	"context"

	"github.com/vango-dev/mvi/pkg/mvi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for container spans.
const defaultTracerName = "github.com/vango-dev/mvi"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: the module path).
	TracerName string

	// Provider is the tracer provider. Default: the global provider.
	Provider trace.TracerProvider

	// TraceDeliveries also emits spans for event deliveries and
	// subscription start/stop. Off by default: these are high volume.
	TraceDeliveries bool
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = provider
	}
}

// WithTraceDeliveries enables spans for deliveries and subscriptions.
func WithTraceDeliveries(enabled bool) TracingOption {
	return func(c *TracingConfig) {
		c.TraceDeliveries = enabled
	}
}

// TracingObserver emits one short span per container operation.
type TracingObserver struct {
	tracer     trace.Tracer
	deliveries bool
}

// Tracing creates an OpenTelemetry observer.
func Tracing(opts ...TracingOption) *TracingObserver {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &TracingObserver{
		tracer:     provider.Tracer(config.TracerName),
		deliveries: config.TraceDeliveries,
	}
}

func (o *TracingObserver) span(name, container string, attrs ...attribute.KeyValue) trace.Span {
	attrs = append(attrs, attribute.String("mvi.container", container))
	_, span := o.tracer.Start(context.Background(), name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return span
}

// StateUpdated implements mvi.Observer.
func (o *TracingObserver) StateUpdated(container string, version uint64, retries int) {
	o.span("mvi.update_state", container,
		attribute.Int64("mvi.version", int64(version)),
		attribute.Int("mvi.retries", retries),
	).End()
}

// EventSent implements mvi.Observer.
func (o *TracingObserver) EventSent(container string) {
	o.span("mvi.send_event", container).End()
}

// EventDelivered implements mvi.Observer.
func (o *TracingObserver) EventDelivered(container string) {
	if !o.deliveries {
		return
	}
	o.span("mvi.deliver_event", container).End()
}

// EventDropped implements mvi.Observer.
func (o *TracingObserver) EventDropped(container string, reason mvi.DropReason) {
	span := o.span("mvi.drop_event", container, attribute.String("mvi.drop_reason", string(reason)))
	span.SetStatus(codes.Error, "event dropped: "+string(reason))
	span.End()
}

// SubscriptionStarted implements mvi.Observer.
func (o *TracingObserver) SubscriptionStarted(container string) {
	if !o.deliveries {
		return
	}
	o.span("mvi.subscription_start", container).End()
}

// SubscriptionStopped implements mvi.Observer.
func (o *TracingObserver) SubscriptionStopped(container string) {
	if !o.deliveries {
		return
	}
	o.span("mvi.subscription_stop", container).End()
}

var (
	_ mvi.Observer = (*LoggingObserver)(nil)
	_ mvi.Observer = (*PrometheusObserver)(nil)
	_ mvi.Observer = (*TracingObserver)(nil)
)
