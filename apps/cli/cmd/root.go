package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Render test-session results to your terminal.",
	Long: `slate renders recorded test sessions: progress markers, per-file
pass/fail summaries and verbose failure tracebacks with source context
and variable snapshots. It consumes session records produced by a test
runner; it never discovers or executes tests itself.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
