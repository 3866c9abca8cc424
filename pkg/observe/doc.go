// Package observe provides mvi.Observer implementations for logging,
// Prometheus metrics and OpenTelemetry tracing.
//
// Observers are attached per container and combined with mvi.Observers:
//
//	metrics := observe.Prometheus(observe.WithNamespace("myapp"))
//	c := mvi.New[State, Event](sc, State{},
//	    mvi.WithName("checkout"),
//	    mvi.WithObserver(mvi.Observers(
//	        metrics,
//	        observe.Tracing(),
//	        observe.Logging(logger, slog.LevelDebug),
//	    )),
//	)
//
// Metrics collected by Prometheus (namespace "mvi" by default):
//   - mvi_state_updates_total: published state writes by container
//   - mvi_state_update_retries_total: compare-and-swap attempts lost to contention
//   - mvi_state_version: latest published version
//   - mvi_events_sent_total, mvi_events_delivered_total: event queue traffic
//   - mvi_events_dropped_total: discarded events by reason (overflow, closed)
//   - mvi_active_subscriptions: running partial-change collectors
package observe
