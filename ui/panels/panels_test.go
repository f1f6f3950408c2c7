package panels

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerunddev/jjgraph/jj/jjtest"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

func newRunner(t *testing.T, nodes ...tree.Node) *runner.Runner {
	t.Helper()

	r := runner.New(jjtest.New(nodes...))
	require.NoError(t, r.Refresh(nodes, false))
	return r
}

func TestGraphPanel_SelectPrefersNewPosition(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B")...)
	op, err := operation.NewRebase("B", "main")
	require.NoError(t, err)
	r.SetPreview(op)

	g := NewGraphPanel()
	g.SetSize(80, 20)
	g.SetTree(r.Derived())

	var copies int
	for _, row := range g.Rows() {
		if row.ID() == "B" {
			copies++
		}
	}
	require.Equal(t, 2, copies)

	require.True(t, g.Select("B"))
	selected, ok := g.Selected()
	require.True(t, ok)
	require.Equal(t, preview.RebaseRoot, selected.Tag)
}

func TestGraphPanel_KeepsSelectionAcrossTrees(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B")...)

	g := NewGraphPanel()
	g.SetSize(80, 20)
	g.SetTree(r.Derived())
	require.True(t, g.Select("A"))

	op, err := operation.NewHide("B")
	require.NoError(t, err)
	r.SetPreview(op)
	g.SetTree(r.Derived())
	require.Equal(t, "A", g.SelectedID())

	require.False(t, g.Select("nope"))
	require.Equal(t, "A", g.SelectedID())
}

func TestGraphPanel_Move(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B")...)

	g := NewGraphPanel()
	g.SetSize(80, 20)
	g.SetTree(r.Derived())
	require.Equal(t, "B", g.SelectedID())

	require.False(t, g.Move(-1))
	require.True(t, g.Move(2))
	require.Equal(t, "main", g.SelectedID())
	require.False(t, g.Move(1))
}

func TestOperationsPanel_Order(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B", "C")...)

	gotoA, err := operation.NewGoto("A")
	require.NoError(t, err)
	_, job := r.Submit(gotoA)
	require.NotNil(t, job)

	gotoB, err := operation.NewGoto("B")
	require.NoError(t, err)
	r.Submit(gotoB)

	hide, err := operation.NewHide("C")
	require.NoError(t, err)
	r.SetPreview(hide)

	p := NewOperationsPanel()
	p.SetSize(40, 10)
	p.SetEntries(r)
	require.Equal(t, 3, p.Count())

	var states []runner.State
	for _, e := range p.entries {
		states = append(states, e.State)
	}
	require.Equal(t, []runner.State{runner.Previewed, runner.Queued, runner.Running}, states)

	selected, ok := p.Selected()
	require.True(t, ok)
	require.Equal(t, runner.Previewed, selected.State)
}

func TestBookmarksPanel_SortedByName(t *testing.T) {
	nodes := []tree.Node{
		treetest.Node("main", nil, treetest.Public(), treetest.Bookmarks("trunk")),
		treetest.Node("A", []string{"main"}, treetest.Head(), treetest.Bookmarks("feature", "alpha")),
	}
	_, m := treetest.MustBuild(t, nodes...)

	p := NewBookmarksPanel()
	p.SetTree(m)
	require.Equal(t, 3, p.Count())

	var names []string
	for _, b := range p.bookmarks {
		names = append(names, b.Name)
	}
	require.Equal(t, []string{"alpha", "feature", "trunk"}, names)
	require.True(t, p.bookmarks[0].IsCurrent)
	require.False(t, p.bookmarks[2].IsCurrent)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "", truncate("abc", 0))
	require.LessOrEqual(t, len([]rune(truncate("abcdefgh", 4))), 4)
}

func TestStatusPanel_Lines(t *testing.T) {
	p := NewStatusPanel()
	require.Equal(t, 3, p.Lines())

	p.SetStatus(Status{RefreshFailed: context.DeadlineExceeded})
	require.Equal(t, 4, p.Lines())
}
