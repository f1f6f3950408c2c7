package drag_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerunddev/jjgraph/drag"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

type nopExecutor struct{}

func (nopExecutor) Execute(context.Context, []string) error { return nil }

func newRunner(t *testing.T, nodes []tree.Node) *runner.Runner {
	t.Helper()
	r := runner.New(nopExecutor{})
	require.NoError(t, r.Refresh(nodes, false))
	return r
}

func TestStart_Rejections(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B"))
	m := r.TreeMap()

	_, err := drag.Start("B", m, preview.None, true, r)
	require.ErrorIs(t, err, drag.ErrUncommittedChanges)

	_, err = drag.Start("main", m, preview.None, false, r)
	require.ErrorIs(t, err, drag.ErrNotDraggable, "public commits stay put")

	_, err = drag.Start("nope", m, preview.None, false, r)
	require.ErrorIs(t, err, drag.ErrUnknownCommit)

	for _, tag := range []preview.Tag{
		preview.RebaseDescendant,
		preview.RebaseOld,
		preview.HiddenRoot,
		preview.HiddenDescendant,
		preview.NonActionableCommit,
	} {
		_, err = drag.Start("A", m, tag, false, r)
		require.ErrorIs(t, err, drag.ErrNotDraggable, tag.String())
	}

	for _, tag := range []preview.Tag{preview.None, preview.RebaseRoot, preview.RebaseOptimisticRoot, preview.RebaseOptimisticDescendant} {
		_, err = drag.Start("A", m, tag, false, r)
		require.NoError(t, err, tag.String())
	}
}

// Dragging the head onto its grandparent is legal: the parent check looks
// at A, not main.
func TestEnter_HeadOntoGrandparent(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B"))

	s, err := drag.Start("B", r.TreeMap(), r.Tag("B"), false, r)
	require.NoError(t, err)

	op, err := s.Enter("main")
	require.NoError(t, err)
	require.Equal(t, "B", op.Source)
	require.Equal(t, "main", op.Dest)

	entry, ok := r.Preview()
	require.True(t, ok)
	require.Equal(t, op.Key(), entry.Op.Key())

	// The new position is the previewed root; B has no descendants.
	node, ok := r.Lookup("B")
	require.True(t, ok)
	require.Equal(t, preview.RebaseRoot, node.Tag)
	require.Empty(t, node.Children)
}

func TestEnter_Rejections(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B", "C"))

	s, err := drag.Start("A", r.TreeMap(), preview.None, false, r)
	require.NoError(t, err)

	tests := []struct {
		dest string
		want error
	}{
		{"A", drag.ErrSameCommit},
		{"B", drag.ErrDescendant},
		{"C", drag.ErrDescendant},
		{"main", drag.ErrAlreadyParent},
		{"ghost", drag.ErrUnknownCommit},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			op, err := s.Enter(tt.dest)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, op)
			_, ok := r.Preview()
			require.False(t, ok, "rejected drop creates no operation")
		})
	}
}

func TestEnter_SupersedesPreviousPreview(t *testing.T) {
	nodes := []tree.Node{
		treetest.Node("main", nil, treetest.Public()),
		treetest.Node("X", []string{"main"}),
		treetest.Node("Y", []string{"main"}),
		treetest.Node("A", []string{"main"}, treetest.Head()),
	}
	r := newRunner(t, nodes)

	var cancelled int
	r.Subscribe(func(ev runner.Event) {
		if ev.Kind == runner.EventCancelled {
			cancelled++
		}
	})

	s, err := drag.Start("A", r.TreeMap(), preview.None, false, r)
	require.NoError(t, err)

	_, err = s.Enter("X")
	require.NoError(t, err)
	_, err = s.Enter("X")
	require.NoError(t, err, "re-entering the same target is idempotent")
	require.Equal(t, 0, cancelled)

	_, err = s.Enter("Y")
	require.NoError(t, err)
	require.Equal(t, 1, cancelled)

	entry, ok := r.Preview()
	require.True(t, ok)
	require.Equal(t, "Y", entry.Op.(*operation.Rebase).Dest)
}

func TestEndLeavesPreviewForConfirmation(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B"))

	s, err := drag.Start("B", r.TreeMap(), preview.None, false, r)
	require.NoError(t, err)
	_, err = s.Enter("main")
	require.NoError(t, err)

	op, ok := s.End()
	require.True(t, ok)
	require.Equal(t, "main", op.Dest)

	_, err = s.Enter("A")
	require.ErrorIs(t, err, drag.ErrSessionClosed)

	entry, ok := r.Preview()
	require.True(t, ok)
	require.True(t, r.Tag("B").NeedsConfirmation())

	job, err := r.ConfirmPreview()
	require.NoError(t, err)
	require.Equal(t, entry.ID, job.EntryID)
}

func TestAbortDiscardsPreview(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B"))

	s, err := drag.Start("B", r.TreeMap(), preview.None, false, r)
	require.NoError(t, err)
	_, err = s.Enter("main")
	require.NoError(t, err)

	s.Abort()
	_, ok := r.Preview()
	require.False(t, ok)
	require.Equal(t, preview.None, r.Tag("B"))

	s.Abort()
}

// A destination that passes Check can still be refused by the runner once
// in-flight operations are folded in. Here X is already on its way onto B.
func TestEnter_RefusedByRunner(t *testing.T) {
	nodes := []tree.Node{
		treetest.Node("main", nil, treetest.Public()),
		treetest.Node("B", []string{"main"}, treetest.Head()),
		treetest.Node("X", []string{"main"}),
		treetest.Node("Y", []string{"main"}),
	}
	r := newRunner(t, nodes)

	inflight, err := operation.NewRebase("X", "B")
	require.NoError(t, err)
	_, job := r.Submit(inflight)
	require.NotNil(t, job)

	s, err := drag.Start("B", r.TreeMap(), r.Tag("B"), false, r)
	require.NoError(t, err)

	_, err = s.Enter("Y")
	require.NoError(t, err)

	op, err := s.Enter("X")
	require.Error(t, err)
	require.Nil(t, op)
	_, ok := s.Proposed()
	require.False(t, ok)
	_, ok = r.Preview()
	require.False(t, ok, "refused rebase leaves the slot empty")

	op, ok = s.End()
	require.False(t, ok)
	require.Nil(t, op)
}

// Re-entering the same target after the preview was dropped elsewhere
// installs it again.
func TestEnter_ReinstallsDroppedPreview(t *testing.T) {
	r := newRunner(t, treetest.Chain("main", "A", "B"))

	s, err := drag.Start("B", r.TreeMap(), preview.None, false, r)
	require.NoError(t, err)
	_, err = s.Enter("main")
	require.NoError(t, err)

	require.True(t, r.CancelPreview())

	op, err := s.Enter("main")
	require.NoError(t, err)
	entry, ok := r.Preview()
	require.True(t, ok)
	require.Equal(t, op.Key(), entry.Op.Key())
}
