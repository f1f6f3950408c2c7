package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/operation"
)

// NewHideCmd creates the hide command.
func NewHideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hide REVISION",
		Aliases: []string{"abandon"},
		Short:   "Abandon a commit and all of its descendants",
		Long: `Abandon REVISION and every commit built on it (jj abandon REVISION::).

If the working copy is among them, it moves to the parent of REVISION.`,
		Example: `  # Drop an experiment
  jjgraph hide kpqx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHide(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runHide(ctx context.Context, w io.Writer, ref string) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	target, err := resolve(s, ref)
	if err != nil {
		return err
	}

	hidden := 0
	if t, ok := s.Runner.TreeMap()[target]; ok {
		hidden = t.Size()
	}

	if err := s.Hide(ctx, target); err != nil {
		return err
	}

	fmt.Fprintf(w, "Hid %s (%d commit(s)).\n", operation.Short(target), hidden)

	return nil
}
