// Package main implements tzig, a terminal multiplexing proxy. tzig
// sits between your terminal and a shell, and on a hotkey composites a
// floating shell window over a model-driven redraw of the main screen.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var debugMode bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "tzig",
		Short: "Terminal multiplexing proxy with a floating overlay shell",
		Long: `tzig - terminal multiplexing proxy

Runs your shell behind a transparent proxy. Press the hotkey to pop a
floating shell window composited over a model-driven redraw of the main screen;
press it again to drop back into the live shell.

Hotkeys:
  Ctrl+]          Toggle the floating overlay
  (also accepted as the Kitty-encoded sequence ESC[93;5u)

While the overlay is visible all input goes to the floating shell.`,
		Example: `  # Run the proxy on $SHELL
  tzig

  # Run with debug logging to /tmp/tzig-debug.log
  tzig --debug`,
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
