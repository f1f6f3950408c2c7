package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/operation"
)

// NewGotoCmd creates the goto command.
func NewGotoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goto REVISION",
		Short: "Start a new working-copy commit on a revision",
		Long: `Start a new, empty working-copy commit on top of REVISION
(jj new REVISION).

REVISION is a commit id, a change id, or a unique prefix of either.`,
		Example: `  # Continue working on top of main
  jjgraph goto main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoto(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runGoto(ctx context.Context, w io.Writer, ref string) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	dest, err := resolve(s, ref)
	if err != nil {
		return err
	}

	if err := s.Goto(ctx, dest); err != nil {
		return err
	}

	fmt.Fprintf(w, "Working copy is now on %s.\n", operation.Short(dest))

	return nil
}
