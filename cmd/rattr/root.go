// Package cmd is the cobra-based CLI entrypoint, grounded on
// shivasurya-code-pathfinder/sast-engine/cmd/root.go: a persistent
// --disable-metrics/--verbose/--no-banner flag set, a banner shown on
// help/bare invocation, and a single Execute() the main package calls.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suadelabs/rattr/internal/analytics"
	"github.com/suadelabs/rattr/internal/output"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "rattr",
	Short: "Static analysis of Python function effects (gets/sets/dels/calls)",
	Long: `rattr analyses Python source and, for every function, derives which
names it reads, assigns, deletes, and calls relative to its own parameters.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics")
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)

		if cmd.Name() == "help" || len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h")) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.Writer(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "disable anonymous usage telemetry")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose progress output")
	rootCmd.PersistentFlags().Bool("debug", false, "debug-level diagnostics with elapsed-time prefixes")
	rootCmd.PersistentFlags().Bool("no-banner", false, "disable the startup banner")
}

func verbosityFromFlags(cmd *cobra.Command) output.VerbosityLevel {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return output.VerbosityDebug
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return output.VerbosityVerbose
	}
	return output.VerbosityDefault
}
