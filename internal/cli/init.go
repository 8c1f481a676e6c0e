package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"purgeall/internal/safety"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing purgeall.yaml")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default purgeall.yaml with comments",
	Long: "Creates purgeall.yaml in the current directory with default exclusions\n" +
		"and thresholds. Edit this file to customize safety behavior.",
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "purgeall.yaml"
	if flagConfig != "" {
		path = flagConfig
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	content := safety.DefaultConfigYAML()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
