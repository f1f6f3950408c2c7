package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/jjgraph/jj/jjtest"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/session"
	"github.com/gerunddev/jjgraph/tree/treetest"
)

func newTestApp(t *testing.T, repo *jjtest.Repo) *App {
	t.Helper()

	s, err := session.Open(context.Background(), repo, "")
	require.NoError(t, err)
	a := NewApp(s, Options{})
	t.Cleanup(a.Close)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs every command it produces.
func press(t *testing.T, a *App, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := a.Update(msg)
	drive(a, cmd)
}

// drive executes commands synchronously, feeding their messages back into
// the app until nothing is left.
func drive(a *App, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func TestApp_StartsOnHead(t *testing.T) {
	a := newTestApp(t, jjtest.New(treetest.Chain("main", "A", "B")...))

	require.Equal(t, "B", a.graph.SelectedID())
	require.Equal(t, ModeBrowse, a.mode())
	require.Contains(t, a.View(), "Graph")
}

func TestApp_DragRebase(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	a := newTestApp(t, repo)

	press(t, a, runes("r"))
	require.Equal(t, ModeDragging, a.mode())

	// A is already the parent, main is a legal destination.
	press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	_, ok := a.runner.Preview()
	require.False(t, ok)
	press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "main", a.graph.SelectedID())
	require.Equal(t, preview.RebaseRoot, a.runner.Tag("B"))

	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ModePreview, a.mode())
	require.Empty(t, repo.Calls(), "nothing runs before confirmation")

	press(t, a, runes("y"))
	require.Equal(t, [][]string{{"rebase", "-s", "B", "-d", "main"}}, repo.Calls())
	require.Equal(t, ModeBrowse, a.mode())
	require.Empty(t, a.runner.Entries())

	parent, ok := a.runner.TreeMap().ParentOf("B")
	require.True(t, ok)
	require.Equal(t, "main", parent.Info.ID)
}

func TestApp_DragAbort(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	a := newTestApp(t, repo)

	press(t, a, runes("r"))
	press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	press(t, a, tea.KeyMsg{Type: tea.KeyEsc})

	_, ok := a.runner.Preview()
	require.False(t, ok)
	require.Equal(t, preview.None, a.runner.Tag("B"))
	require.Empty(t, repo.Calls())
}

func TestApp_DragRefusedWhenDirty(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	repo.SetDirty(true)
	a := newTestApp(t, repo)

	press(t, a, runes("r"))
	require.Nil(t, a.drag)
	require.NotNil(t, a.info)

	press(t, a, runes("q"))
	require.Nil(t, a.info, "any key dismisses the dialog")
}

func TestApp_HideNeedsConfirmation(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	a := newTestApp(t, repo)

	press(t, a, runes("h"))
	require.Equal(t, ModePreview, a.mode())
	require.Equal(t, preview.HiddenRoot, a.runner.Tag("B"))

	press(t, a, runes("n"))
	require.Equal(t, preview.None, a.runner.Tag("B"))
	require.Empty(t, repo.Calls())

	press(t, a, runes("h"))
	press(t, a, runes("y"))
	require.Equal(t, [][]string{{"abandon", "B::"}}, repo.Calls())
	require.NotContains(t, a.runner.TreeMap(), "B")
}

func TestApp_FailureOpensDialog(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	repo.FailOn("abandon B::", errors.New("immutable"))
	a := newTestApp(t, repo)

	press(t, a, runes("h"))
	press(t, a, runes("y"))

	require.NotNil(t, a.info)
	require.Contains(t, a.View(), "immutable")
	require.Contains(t, a.runner.TreeMap(), "B")
}

func TestApp_Goto(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	a := newTestApp(t, repo)

	press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	press(t, a, runes("g"))
	require.Equal(t, [][]string{{"new", "A"}}, repo.Calls())
}

func TestApp_AmendMessage(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	a := newTestApp(t, repo)

	press(t, a, runes("m"))
	require.NotNil(t, a.message)

	press(t, a, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Nil(t, a.message)

	calls := repo.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []string{"describe", "B", "-m"}, calls[0][:3])
}

func TestApp_CursorClampsAtRoot(t *testing.T) {
	repo := jjtest.New(treetest.Chain("main", "A", "B")...)
	a := newTestApp(t, repo)

	press(t, a, runes("h"))
	press(t, a, runes("y"))
	require.Len(t, repo.Calls(), 1)

	for range 5 {
		press(t, a, tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, "main", a.graph.SelectedID())
	press(t, a, runes("g"))
	require.Equal(t, []string{"new", "main"}, repo.Calls()[1])
}

func TestApp_FocusCycles(t *testing.T) {
	a := newTestApp(t, jjtest.New(treetest.Chain("main", "A")...))

	press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusBookmarks, a.focus)
	press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusOperations, a.focus)
	press(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, FocusBookmarks, a.focus)
}

func TestOverlay(t *testing.T) {
	bg := "aaa\nbbb\nccc"
	fg := "   \nXXX\n"
	require.Equal(t, "aaa\nXXX\nccc", overlay(bg, fg))
	require.True(t, strings.HasPrefix(overlay(bg, ""), "aaa"))
}
