package commands_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerunddev/jjgraph/commands"
	"github.com/gerunddev/jjgraph/jj/jjtest"
	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

func newTestRepo() *jjtest.Repo {
	return jjtest.New(treetest.Chain("main", "A", "B")...)
}

// run executes the root command against repo and returns stdout.
func run(t *testing.T, repo *jjtest.Repo, args ...string) (string, error) {
	t.Helper()

	rootCmd := commands.NewRootCmd(commands.WithBackend(repo))
	rootCmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := commands.NewRootCmd()
	require.NotNil(t, cmd)
	require.Equal(t, "jjgraph", cmd.Use)

	// Verify subcommands are registered.
	cmdNames := make(map[string]bool)
	for _, c := range cmd.Commands() {
		cmdNames[c.Name()] = true
	}

	for _, name := range []string{"log", "goto", "rebase", "hide", "uncommit", "amend", "version"} {
		require.True(t, cmdNames[name], name)
	}

	for _, flag := range []string{"dir", "revset", "jj", "no-watch", "refresh"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	require.NotNil(t, cmd.Flags().Lookup("interactive"))
}

func TestNewRebaseCmd(t *testing.T) {
	cmd := commands.NewRebaseCmd()
	require.NotNil(t, cmd)
	require.Equal(t, "rebase SOURCE DESTINATION", cmd.Use)
	require.NotEmpty(t, cmd.Short)
	require.NotEmpty(t, cmd.Long)
	require.NotEmpty(t, cmd.Example)
	require.NotNil(t, cmd.Flags().Lookup("dry-run"))
}

func TestNewAmendCmd(t *testing.T) {
	cmd := commands.NewAmendCmd()
	require.NotNil(t, cmd)
	require.Equal(t, "amend [REVISION]", cmd.Use)
}

func TestLogCommand(t *testing.T) {
	out, err := run(t, newTestRepo(), "log")
	require.NoError(t, err)

	require.Contains(t, out, "@ change-B B B\n")
	require.Contains(t, out, "○ change-A A A\n")
	require.Contains(t, out, "◆ change-m main main\n")
}

func TestGotoCommand(t *testing.T) {
	repo := newTestRepo()

	out, err := run(t, repo, "goto", "change-A")
	require.NoError(t, err)
	require.Contains(t, out, "Working copy is now on A.")
	require.Equal(t, [][]string{{"new", "A"}}, repo.Calls())
}

func TestGotoCommand_UnknownRevision(t *testing.T) {
	repo := newTestRepo()

	_, err := run(t, repo, "goto", "zzz")
	require.ErrorIs(t, err, tree.ErrNoMatch)
	require.Empty(t, repo.Calls())
}

func TestRebaseCommand(t *testing.T) {
	repo := newTestRepo()

	out, err := run(t, repo, "rebase", "B", "main")
	require.NoError(t, err)
	require.Contains(t, out, "Rebased B onto main.")
	require.Equal(t, [][]string{{"rebase", "-s", "B", "-d", "main"}}, repo.Calls())
}

func TestRebaseCommand_DryRun(t *testing.T) {
	repo := newTestRepo()

	out, err := run(t, repo, "rebase", "B", "main", "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "[rebase-root]")
	require.Contains(t, out, "[rebase-old]")
	require.Empty(t, repo.Calls())
}

func TestRebaseCommand_Rejected(t *testing.T) {
	repo := newTestRepo()

	_, err := run(t, repo, "rebase", "B", "A")
	require.ErrorContains(t, err, "already the parent")
	require.Empty(t, repo.Calls())
}

func TestHideCommand(t *testing.T) {
	repo := newTestRepo()

	out, err := run(t, repo, "hide", "A")
	require.NoError(t, err)
	require.Contains(t, out, "Hid A (2 commit(s)).")
	require.Equal(t, [][]string{{"abandon", "A::"}}, repo.Calls())
}

func TestUncommitCommand(t *testing.T) {
	repo := newTestRepo()

	out, err := run(t, repo, "uncommit")
	require.NoError(t, err)
	require.Contains(t, out, "Uncommitted B.")
	require.Equal(t, [][]string{{"squash", "--from", "B", "--into", "@"}}, repo.Calls())
}

func TestUncommitCommand_Dirty(t *testing.T) {
	repo := newTestRepo()
	repo.SetDirty(true)

	_, err := run(t, repo, "uncommit")
	require.ErrorContains(t, err, "uncommitted changes")
	require.Empty(t, repo.Calls())
}

func TestAmendCommand(t *testing.T) {
	repo := newTestRepo()

	out, err := run(t, repo, "amend", "-m", "New title\n\nWith a body.")
	require.NoError(t, err)
	require.Contains(t, out, "Updated message of B.")
	require.Equal(t, [][]string{{"describe", "B", "-m", "New title\n\nWith a body."}}, repo.Calls())
}

func TestAmendCommand_EmptyMessage(t *testing.T) {
	_, err := run(t, newTestRepo(), "amend", "A", "-m", "  ")
	require.ErrorContains(t, err, "commit message required")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, newTestRepo(), "version")
	require.NoError(t, err)
	require.Equal(t, "jjgraph "+commands.Version+"\n", out)
}
