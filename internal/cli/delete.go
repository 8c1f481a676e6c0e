package cli

import (
	"github.com/spf13/cobra"

	"purgeall/internal/command"
)

var (
	deleteForce        bool
	deleteDryRun       bool
	deleteProdOverride bool
)

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteDryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	deleteCmd.Flags().BoolVar(&deleteProdOverride, "production-override", false, "Allow deletion in production (use with extreme caution!)")
}

var deleteCmd = &cobra.Command{
	Use:   "delete <namespace> [<model>]",
	Short: "Delete all records of a model",
	Long: "Deletes every record of the named model after safety checks.\n" +
		"Omit the model name to list available models with live counts.\n\n" +
		"Examples:\n" +
		"  purgeall delete shop order\n" +
		"  purgeall delete shop order --dry-run\n" +
		"  purgeall delete shop  # lists available models",
	Args: cobra.RangeArgs(1, 2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	rt, err := setup(deleteProdOverride)
	if err != nil {
		return err
	}
	defer rt.close()

	opts := command.Options{
		Namespace: args[0],
		Force:     deleteForce,
		DryRun:    deleteDryRun,
		Verbose:   flagVerbose,
		Actor:     "cli",
	}
	if len(args) == 2 {
		opts.ModelName = args[1]
	}

	deps := command.Deps{
		Registry: rt.registry,
		Policy:   rt.policy,
		Invoker:  rt.invoker,
		Confirm:  promptConfirmer{},
		Out:      cmd.OutOrStdout(),
	}
	return command.Run(cmd.Context(), deps, opts)
}
