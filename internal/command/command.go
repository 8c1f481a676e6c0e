// Package command is the management-command front-end: it resolves the
// target model, lists models when none is named, wires confirmation, and
// renders the outcome. The CLI drives it; tests can drive it directly.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"purgeall/internal/invoker"
	"purgeall/internal/model"
	"purgeall/internal/registry"
	"purgeall/internal/safety"
)

// Options mirror the delete command's arguments and flags.
type Options struct {
	Namespace string
	ModelName string
	Force     bool
	DryRun    bool
	Verbose   bool
	Actor     string
}

// Deps are the collaborators the command drives.
type Deps struct {
	Registry *registry.Registry
	Policy   *safety.Policy
	Invoker  *invoker.Invoker
	Confirm  invoker.Confirmer
	Out      io.Writer
}

// Run executes the delete command: list models when no model is named,
// otherwise resolve the target, count it, and hand off to the invoker.
// A nil return means exit 0 (success, cancellation, or dry run).
func Run(ctx context.Context, deps Deps, opts Options) error {
	if opts.ModelName == "" {
		return listModels(ctx, deps, opts.Namespace)
	}

	m, err := deps.Registry.Resolve(ctx, opts.Namespace, opts.ModelName)
	if err != nil {
		var nf *registry.NotFoundError
		if errors.As(err, &nf) && nf.Name != "" {
			return fmt.Errorf("%w (run without a model name to see available models)", err)
		}
		return err
	}

	count, err := deps.Registry.Count(ctx, m.Table)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintf(deps.Out, "No %s records found to delete.\n", m.Identifier)
		return nil
	}

	fmt.Fprintf(deps.Out, "Found %d %s records to delete.\n", count, m.Identifier)

	confirm := deps.Confirm
	if !opts.Force && !deps.Policy.RequiresConfirmation(count) {
		// Below the confirmation threshold: proceed without prompting.
		confirm = autoConfirm{}
	}

	req := invoker.Request{
		Identifier:    m.Identifier,
		Table:         m.Table,
		Count:         count,
		Actor:         opts.Actor,
		DryRun:        opts.DryRun,
		PreAuthorized: opts.Force,
	}

	out, err := deps.Invoker.Run(ctx, req, confirm)
	if err != nil {
		var blocked *invoker.BlockedError
		if errors.As(err, &blocked) {
			return fmt.Errorf("deletion blocked for safety: %s\nTo adjust these limits, edit the purgeall configuration", blocked.Reason)
		}
		return err
	}

	render(deps.Out, out, opts.Verbose)
	return nil
}

func render(w io.Writer, out *model.Outcome, verbose bool) {
	switch out.Kind {
	case model.KindDryRun:
		fmt.Fprintf(w, "DRY RUN: %d records would be deleted. Nothing was touched.\n", out.RequestedCount)
	case model.KindCancelled:
		fmt.Fprintln(w, "Operation cancelled.")
	case model.KindSucceeded:
		fmt.Fprintf(w, "Successfully deleted %d records.\n", out.DeletedCount)
		if verbose {
			for _, line := range breakdownLines(out.Breakdown) {
				fmt.Fprintf(w, "  - %s\n", line)
			}
		}
	}
}

func listModels(ctx context.Context, deps Deps, namespace string) error {
	models, err := deps.Registry.Models(ctx, namespace)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Out, "Available models in %q:\n", namespace)
	for _, m := range models {
		fmt.Fprintf(deps.Out, "  - %s (%d records)\n", m.Identifier.Name, m.Count)
	}
	return nil
}

func breakdownLines(breakdown map[string]int64) []string {
	tables := make([]string, 0, len(breakdown))
	for t := range breakdown {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	lines := make([]string, 0, len(tables))
	for _, t := range tables {
		lines = append(lines, fmt.Sprintf("%s: %d", t, breakdown[t]))
	}
	return lines
}

// autoConfirm approves deletions below the confirmation threshold.
type autoConfirm struct{}

func (autoConfirm) Confirm(model.Identifier, int64) (bool, error) { return true, nil }
