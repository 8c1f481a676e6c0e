package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "purgeall",
	Short: "Safety-gated bulk deletion for SQL datastores",
	Long: "Deletes every record of a chosen model, gated by exclusion lists,\n" +
		"count thresholds, confirmation prompts, and a tamper-evident audit log.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to purgeall.yaml (default: auto-detected)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
