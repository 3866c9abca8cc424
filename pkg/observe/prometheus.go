package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/mvi/pkg/mvi"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "mvi").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "mvi",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// PrometheusObserver records container activity as Prometheus metrics.
// One observer can serve any number of containers; series are labelled by
// container name.
type PrometheusObserver struct {
	stateUpdates  *prometheus.CounterVec
	stateRetries  *prometheus.CounterVec
	stateVersion  *prometheus.GaugeVec
	eventsSent    *prometheus.CounterVec
	eventsDeliv   *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec
	subscriptions *prometheus.GaugeVec
}

// Prometheus creates the observer and registers its collectors.
// Registering twice on the same registry panics, so create one observer per
// registry and share it between containers.
func Prometheus(opts ...MetricsOption) *PrometheusObserver {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, append([]string{"container"}, labels...))
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, []string{"container"})
	}

	return &PrometheusObserver{
		stateUpdates:  counter("state_updates_total", "Total number of published state writes"),
		stateRetries:  counter("state_update_retries_total", "State write attempts lost to concurrent writers"),
		stateVersion:  gauge("state_version", "Latest published state version"),
		eventsSent:    counter("events_sent_total", "Total number of events accepted into the queue"),
		eventsDeliv:   counter("events_delivered_total", "Total number of events taken by a receiver"),
		eventsDropped: counter("events_dropped_total", "Total number of discarded events", "reason"),
		subscriptions: gauge("active_subscriptions", "Number of running partial-change collectors"),
	}
}

// StateUpdated implements mvi.Observer.
func (p *PrometheusObserver) StateUpdated(container string, version uint64, retries int) {
	p.stateUpdates.WithLabelValues(container).Inc()
	if retries > 0 {
		p.stateRetries.WithLabelValues(container).Add(float64(retries))
	}
	p.stateVersion.WithLabelValues(container).Set(float64(version))
}

// EventSent implements mvi.Observer.
func (p *PrometheusObserver) EventSent(container string) {
	p.eventsSent.WithLabelValues(container).Inc()
}

// EventDelivered implements mvi.Observer.
func (p *PrometheusObserver) EventDelivered(container string) {
	p.eventsDeliv.WithLabelValues(container).Inc()
}

// EventDropped implements mvi.Observer.
func (p *PrometheusObserver) EventDropped(container string, reason mvi.DropReason) {
	p.eventsDropped.WithLabelValues(container, string(reason)).Inc()
}

// SubscriptionStarted implements mvi.Observer.
func (p *PrometheusObserver) SubscriptionStarted(container string) {
	p.subscriptions.WithLabelValues(container).Inc()
}

// SubscriptionStopped implements mvi.Observer.
func (p *PrometheusObserver) SubscriptionStopped(container string) {
	p.subscriptions.WithLabelValues(container).Dec()
}
