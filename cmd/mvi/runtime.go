package main

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vango-dev/mvi/internal/config"
	"github.com/vango-dev/mvi/pkg/lifecycle"
	"github.com/vango-dev/mvi/pkg/mvi"
	"github.com/vango-dev/mvi/pkg/observe"
	"go.opentelemetry.io/otel"
)

// env is what every command builds from mvi.json.
type env struct {
	config   *config.Config
	logger   *slog.Logger
	minState lifecycle.State
	registry *prometheus.Registry
	options  []mvi.Option
}

func loadEnv(path string, logOut io.Writer) (*env, error) {
	cfg, err := config.LoadOrNew(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	minState, err := cfg.MinState()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger(logOut)
	level, _ := cfg.LogLevel()

	observers := []mvi.Observer{
		observe.Logging(logger, slog.LevelDebug),
		observe.Tracing(observe.WithTracerProvider(otel.GetTracerProvider())),
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, observe.Prometheus(
			observe.WithNamespace(cfg.Metrics.Namespace),
			observe.WithRegistry(registry),
		))
	}

	logger.Debug("config loaded",
		slog.String("path", path),
		slog.String("level", level.String()),
		slog.String("minState", minState.String()),
	)

	opts := append(cfg.ContainerOptions(),
		mvi.WithLogger(logger),
		mvi.WithObserver(mvi.Observers(observers...)),
	)
	return &env{
		config:   cfg,
		logger:   logger,
		minState: minState,
		registry: registry,
		options:  opts,
	}, nil
}
