package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerunddev/jjgraph/jj/jjtest"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/session"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

func TestOpen_LoadsTree(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	repo.SetDirty(true)

	s, err := session.Open(context.Background(), repo, "")
	require.NoError(t, err)
	require.Equal(t, "B", s.Runner.TreeMap().Head().Info.ID)
	require.True(t, s.Runner.HasUncommittedChanges())
	require.NotNil(t, s.Runner.Derived())
}

func TestOpen_SourceError(t *testing.T) {
	repo := jjtest.New()
	repo.SnapshotErr = errors.New("not a jj repo")

	_, err := session.Open(context.Background(), repo, "")
	require.ErrorContains(t, err, "load commits: not a jj repo")
}

func TestRun_RefreshesAndRetires(t *testing.T) {
	ctx := context.Background()
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	s, err := session.Open(ctx, repo, "")
	require.NoError(t, err)

	op, err := operation.NewRebase("B", "main")
	require.NoError(t, err)
	require.NoError(t, s.Run(ctx, op))

	require.Equal(t, [][]string{{"rebase", "-s", "B", "-d", "main"}}, repo.Calls())
	require.Empty(t, s.Runner.Entries(), "landed rebase is retired by the refresh")

	parent, ok := s.Runner.TreeMap().ParentOf("B")
	require.True(t, ok)
	require.Equal(t, "main", parent.Info.ID)
	require.Equal(t, preview.None, s.Runner.Tag("B"))
}

func TestRun_ReportsFailure(t *testing.T) {
	ctx := context.Background()
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	repo.FailOn("abandon B::", errors.New("boom"))
	s, err := session.Open(ctx, repo, "")
	require.NoError(t, err)

	op, err := operation.NewHide("B")
	require.NoError(t, err)
	require.EqualError(t, s.Run(ctx, op), "boom")
	require.Contains(t, s.Runner.TreeMap(), "B")
}

func TestRunPreview(t *testing.T) {
	ctx := context.Background()
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	s, err := session.Open(ctx, repo, "")
	require.NoError(t, err)

	require.ErrorIs(t, s.RunPreview(ctx), runner.ErrNoPreview)

	op, err := operation.NewHide("B")
	require.NoError(t, err)
	s.Runner.SetPreview(op)
	require.Equal(t, preview.HiddenRoot, s.Runner.Tag("B"))

	require.NoError(t, s.RunPreview(ctx))
	require.NotContains(t, s.Runner.TreeMap(), "B")
	require.Equal(t, "A", s.Runner.TreeMap().Head().Info.ID)
}
