package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [<namespace>]",
	Short: "List namespaces, or the models in a namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := setup(false)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		namespaces, err := rt.registry.Namespaces(ctx)
		if err != nil {
			return err
		}
		if len(namespaces) == 0 {
			fmt.Fprintln(out, "No tables found.")
			return nil
		}
		for _, ns := range namespaces {
			fmt.Fprintln(out, ns)
		}
		return nil
	}

	models, err := rt.registry.Models(ctx, args[0])
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Fprintf(out, "%s (%d records)\n", m.Identifier.Name, m.Count)
	}
	return nil
}
