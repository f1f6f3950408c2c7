package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

// draw renders rows as plain text, one line per row and connector.
func draw(rows []Row) string {
	var lines []string
	for _, r := range rows {
		lines = append(lines, r.Prefix+r.ID())
		if r.Connector != "" {
			lines = append(lines, r.Connector)
		}
	}
	return strings.Join(lines, "\n")
}

func layout(t *testing.T, nodes ...tree.Node) []Row {
	t.Helper()
	root, _ := treetest.MustBuild(t, nodes...)
	return Layout(preview.FromTree(root), Styles{})
}

func TestLayout_Nil(t *testing.T) {
	require.Nil(t, Layout(nil, Styles{}))
}

func TestLayout_Chain(t *testing.T) {
	rows := layout(t, treetest.Chain("main", "A", "B")...)

	require.Equal(t, strings.Join([]string{
		"@ B",
		"│",
		"○ A",
		"│",
		"◆ main",
	}, "\n"), draw(rows))
}

func TestLayout_Branches(t *testing.T) {
	rows := layout(t,
		treetest.Node("main", nil, treetest.Public()),
		treetest.Node("A", []string{"main"}, treetest.Head()),
		treetest.Node("B", []string{"main"}),
		treetest.Node("C", []string{"B"}),
	)

	require.Equal(t, strings.Join([]string{
		"@ A",
		"│",
		"│ ○ C",
		"│ │",
		"│ ○ B",
		"├─╯",
		"◆ main",
	}, "\n"), draw(rows))

	for _, r := range rows {
		if r.ID() == "B" {
			require.Equal(t, 1, r.Column)
		}
	}
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		name string
		tree *preview.Tree
		want string
	}{
		{"head", &preview.Tree{Info: tree.Node{ID: "a", IsHead: true}}, SymbolHead},
		{"trunk", &preview.Tree{Info: tree.Node{ID: "a", PartOfTrunk: true}}, SymbolTrunk},
		{"hidden wins over head", &preview.Tree{Info: tree.Node{ID: "a", IsHead: true}, Tag: preview.HiddenRoot}, SymbolHidden},
		{"old rebase position", &preview.Tree{Info: tree.Node{ID: "a"}, Tag: preview.RebaseOld}, SymbolGhost},
		{"unknown root", &preview.Tree{Info: tree.Node{ID: tree.UnknownRootID}}, SymbolUnknown},
		{"plain", &preview.Tree{Info: tree.Node{ID: "a"}}, SymbolCommit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Symbol(tt.tree))
		})
	}
}
