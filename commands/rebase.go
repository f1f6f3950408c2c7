package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/operation"
)

// NewRebaseCmd creates the rebase command.
func NewRebaseCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rebase SOURCE DESTINATION",
		Short: "Move a commit and its descendants onto another commit",
		Long: `Move SOURCE and all of its descendants onto DESTINATION
(jj rebase -s SOURCE -d DESTINATION).

The move is checked the same way a drag in the graph view is: public
commits stay put, a commit cannot be dropped onto itself, one of its
descendants or its current parent, and the working copy must be clean.`,
		Example: `  # Move a feature stack onto main
  jjgraph rebase kpqx main

  # Print the resulting graph without running jj
  jjgraph rebase kpqx main --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebase(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], dryRun)
		},
	}

	cmd.Flags().BoolVarP(
		&dryRun, "dry-run", "n", false,
		"print the previewed graph instead of rebasing",
	)

	return cmd
}

func runRebase(ctx context.Context, w io.Writer, sourceRef, destRef string, dryRun bool) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	source, err := resolve(s, sourceRef)
	if err != nil {
		return err
	}
	dest, err := resolve(s, destRef)
	if err != nil {
		return err
	}

	op, err := s.ProposeRebase(source, dest)
	if err != nil {
		return err
	}

	if dryRun {
		printGraph(w, s.Runner.Derived())
		s.Runner.CancelPreview()
		return nil
	}

	if err := s.RunPreview(ctx); err != nil {
		return err
	}

	fmt.Fprintf(w, "Rebased %s onto %s.\n", operation.Short(op.Source), operation.Short(op.Dest))

	return nil
}
