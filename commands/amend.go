package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/operation"
)

// NewAmendCmd creates the amend command.
func NewAmendCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "amend [REVISION]",
		Short: "Replace a commit's message",
		Long: `Replace the message of REVISION, the head by default
(jj describe REVISION -m MESSAGE).

The first line of MESSAGE is the title, the rest the description.`,
		Example: `  # Retitle the head
  jjgraph amend -m "Fix the parser"

  # Retitle another commit
  jjgraph amend kpqx -m "Add tests"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}

			return runAmend(cmd.Context(), cmd.OutOrStdout(), ref, message)
		},
	}

	cmd.Flags().StringVarP(
		&message, "message", "m", "",
		"new commit message",
	)
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runAmend(ctx context.Context, w io.Writer, ref, message string) error {
	msg := operation.ParseMessage(message)
	if msg.Title == "" {
		return fmt.Errorf("commit message required (-m)")
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	var id string
	if ref == "" {
		head := s.Runner.TreeMap().Head()
		if head == nil {
			return fmt.Errorf("no head commit")
		}
		id = head.Info.ID
	} else if id, err = resolve(s, ref); err != nil {
		return err
	}

	if err := s.Amend(ctx, id, msg); err != nil {
		return err
	}

	fmt.Fprintf(w, "Updated message of %s.\n", operation.Short(id))

	return nil
}
