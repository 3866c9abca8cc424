package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/mvi/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┬  ┬┬
  ││││  ││
  ┴ ┴ └┘ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mvi",
		Short: "Run and inspect MVI state containers",
		Long: `mvi drives the sample counter screen and serves the state inspector.

Containers hold a single observable state and a queue of one-shot
events. Use:

  • demo to watch lifecycle-aware partial-change subscriptions
  • inspect to browse live container state over HTTP and WebSocket
  • config to create or print mvi.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mvi.json", "Path to the config file")

	rootCmd.AddCommand(
		demoCmd(&configPath),
		inspectCmd(&configPath),
		configCmd(&configPath),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
