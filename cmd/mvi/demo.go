package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/mvi/internal/demo"
	"github.com/vango-dev/mvi/internal/errors"
	"github.com/vango-dev/mvi/pkg/lifecycle"
	"github.com/vango-dev/mvi/pkg/scope"
)

// step is one scripted action of the demo: an intent, a lifecycle event or both.
type step struct {
	intent demo.Intent
	event  *lifecycle.Event
	note   string
}

func lifecycleStep(e lifecycle.Event) step {
	return step{event: &e, note: "lifecycle: " + e.String()}
}

func demoScript() []step {
	return []step{
		lifecycleStep(lifecycle.OnCreate),
		lifecycleStep(lifecycle.OnStart),
		lifecycleStep(lifecycle.OnResume),
		{intent: demo.Increment{By: 1}},
		{intent: demo.Increment{By: 2}},
		{intent: demo.Rename{Name: "clicks"}},
		lifecycleStep(lifecycle.OnPause),
		lifecycleStep(lifecycle.OnStop),
		{intent: demo.Increment{By: 10}, note: "increment while stopped"},
		{intent: demo.OpenDetails{}, note: "navigate while stopped"},
		lifecycleStep(lifecycle.OnStart),
		lifecycleStep(lifecycle.OnResume),
		{intent: demo.Save{}},
		{intent: demo.Reset{}},
		lifecycleStep(lifecycle.OnDestroy),
	}
}

func demoCmd(configPath *string) *cobra.Command {
	var pause time.Duration

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted counter screen",
		Long: `Run the counter screen through a scripted lifecycle.

The screen prints a line only when the fields it watches change,
pauses while the lifecycle is below the configured threshold and
receives every queued event exactly once after it restarts.

Examples:
  mvi demo
  mvi demo --pause=500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(*configPath, os.Stderr)
			if err != nil {
				return err
			}
			printBanner()
			fmt.Println()
			if err := runDemo(cmd.Context(), os.Stdout, e, pause); err != nil {
				return errors.FromError(err, "M302")
			}
			success("demo finished")
			return nil
		},
	}

	cmd.Flags().DurationVar(&pause, "pause", 100*time.Millisecond, "Delay between steps")

	return cmd
}

func runDemo(ctx context.Context, w io.Writer, e *env, pause time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sc := scope.New(ctx, scope.WithName("demo"), scope.WithLogger(e.logger))
	defer sc.Cancel()

	model := demo.NewCounterModel(sc, e.logger, e.options...)
	model.SaveDelay = pause / 2

	lc := lifecycle.NewRegistry(e.logger)
	sub := demo.NewScreen(model, lc, e.minState, w).Start(ctx)
	defer sub.Stop()

	for _, s := range demoScript() {
		if s.note != "" {
			fmt.Fprintf(w, "# %s\n", s.note)
		}
		if s.event != nil {
			lc.HandleEvent(*s.event)
		}
		if s.intent != nil {
			model.Dispatch(s.intent)
		}
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		return fmt.Errorf("screen did not stop after destroy")
	}
	return sc.Err()
}
