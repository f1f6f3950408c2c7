package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/ui/graph"
)

// NewLogCmd creates the log command.
func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the commit graph",
		Long: `Print the commit graph the way the full-screen view draws it,
newest commits first.`,
		Example: `  # Graph of the default revset
  jjgraph log

  # Graph of everything reachable from main
  jjgraph log --revset '::main'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLog(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runLog(ctx context.Context, w io.Writer) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	printGraph(w, s.Runner.Derived())
	return nil
}

// printGraph writes the tree as plain text. Commits carrying a preview tag
// show it in brackets.
func printGraph(w io.Writer, root *preview.Tree) {
	for _, row := range graph.Layout(root, graph.Styles{}) {
		fmt.Fprintln(w, strings.TrimRight(row.Prefix+describe(row.Node), " "))
		if row.Connector != "" {
			fmt.Fprintln(w, row.Connector)
		}
	}
}

func describe(t *preview.Tree) string {
	info := t.Info
	if info.IsUnknownRoot() {
		return "(elided)"
	}

	parts := []string{operation.Short(info.ChangeID), operation.Short(info.ID)}
	if len(info.Bookmarks) > 0 {
		parts = append(parts, strings.Join(info.Bookmarks, " "))
	}
	title := info.Title
	if title == "" {
		title = "(no description)"
	}
	parts = append(parts, title)
	if t.Tag != preview.None {
		parts = append(parts, "["+t.Tag.String()+"]")
	}
	return strings.Join(parts, " ")
}
