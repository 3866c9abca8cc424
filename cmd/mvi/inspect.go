package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/mvi/internal/demo"
	mvierrors "github.com/vango-dev/mvi/internal/errors"
	"github.com/vango-dev/mvi/pkg/devtools"
	"github.com/vango-dev/mvi/pkg/scope"
)

func inspectCmd(configPath *string) *cobra.Command {
	var (
		port     int
		host     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the state inspector",
		Long: `Serve the state inspector for a live counter container.

The counter is incremented on a timer so watchers have something to see.

Endpoints:
  GET /containers               names, versions and pending events
  GET /containers/{name}        JSON snapshot
  GET /containers/{name}/watch  WebSocket stream of state changes
  GET /metrics                  Prometheus metrics (if enabled)

Examples:
  mvi inspect
  mvi inspect --port=9000 --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath, os.Stderr)
			if err != nil {
				return err
			}
			if port > 0 {
				e.config.Inspector.Port = port
			}
			if host != "" {
				e.config.Inspector.Host = host
			}
			if err := e.config.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", e.config.InspectorAddress())
			if err != nil {
				return mvierrors.New("M201").Wrap(err)
			}

			printBanner()
			success("Inspector listening on %s", e.config.InspectorURL())
			info("Watch with: websocat %s/containers/counter/watch", "ws://"+e.config.InspectorAddress())
			return runInspector(ctx, ln, e, interval)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from mvi.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from mvi.json)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Increment interval")

	return cmd
}

func runInspector(ctx context.Context, ln net.Listener, e *env, interval time.Duration) error {
	sc := scope.New(ctx, scope.WithName("inspector"), scope.WithLogger(e.logger))
	defer sc.Cancel()

	model := demo.NewCounterModel(sc, e.logger, e.options...)
	registry := devtools.NewRegistry()
	if err := registry.Register(model.Container()); err != nil {
		return mvierrors.New("M301").Wrap(err)
	}

	opts := []devtools.Option{devtools.WithLogger(e.logger)}
	if e.registry != nil {
		opts = append(opts, devtools.WithGatherer(e.registry))
	}
	srv := &http.Server{
		Handler:           devtools.NewHandler(registry, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	sc.OnCleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			e.logger.Error("inspector shutdown", "error", err)
		}
	})

	sc.Launch(func(ctx context.Context) error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return mvierrors.New("M201").Wrap(err)
		}
		return nil
	})

	sc.Go(func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				model.Dispatch(demo.Increment{By: 1})
			}
		}
	})

	<-sc.Done()
	if err := sc.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
