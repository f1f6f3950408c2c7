package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/operation"
)

// NewUncommitCmd creates the uncommit command.
func NewUncommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uncommit",
		Short: "Move the head commit's changes back into the working copy",
		Long: `Squash the head commit into the working copy
(jj squash --from HEAD --into @), making its parent the new head.

The head must have no descendants, must not be public, and the working
copy must be clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUncommit(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runUncommit(ctx context.Context, w io.Writer) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	head := s.Runner.TreeMap().Head()
	if err := s.Uncommit(ctx); err != nil {
		return err
	}

	fmt.Fprintf(w, "Uncommitted %s.\n", operation.Short(head.Info.ID))

	return nil
}
