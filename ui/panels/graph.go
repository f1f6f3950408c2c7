package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/ui/graph"
	"github.com/gerunddev/jjgraph/ui/prefix"
	"github.com/gerunddev/jjgraph/ui/theme"
)

const shownIDLen = 8

var graphStyles = graph.Styles{
	Head:   theme.HeadStyle,
	Commit: theme.CommitStyle,
	Trunk:  theme.TrunkStyle,
	Line:   theme.LineStyle,
}

// GraphPanel shows the derived commit tree with a cursor.
type GraphPanel struct {
	BasePanel
	viewport viewport.Model
	ready    bool

	rows    []graph.Row
	starts  []int // first line of each row
	ids     *prefix.IDSet
	grabbed string
}

// NewGraphPanel creates an empty graph panel.
func NewGraphPanel() *GraphPanel {
	return &GraphPanel{
		BasePanel: NewBasePanel("1 Graph"),
		ids:       prefix.NewIDSet(nil, shownIDLen),
	}
}

// SetTree replaces the rendered tree and keeps the cursor on the same
// commit when it is still shown.
func (g *GraphPanel) SetTree(root *preview.Tree) {
	selected := g.SelectedID()

	g.rows = graph.Layout(root, graphStyles)
	changeIDs := make([]string, 0, len(g.rows))
	for _, r := range g.rows {
		changeIDs = append(changeIDs, r.Node.Info.ChangeID)
	}
	g.ids = prefix.NewIDSet(changeIDs, shownIDLen)

	if selected == "" || !g.Select(selected) {
		g.ClampCursor(len(g.rows))
	}
	g.render()
}

// SetGrabbed marks the commit being dragged. Empty clears it.
func (g *GraphPanel) SetGrabbed(id string) {
	g.grabbed = id
	g.render()
}

// Rows returns the laid out rows.
func (g *GraphPanel) Rows() []graph.Row {
	return g.rows
}

// Selected returns the node under the cursor.
func (g *GraphPanel) Selected() (*preview.Tree, bool) {
	if g.cursor < 0 || g.cursor >= len(g.rows) {
		return nil, false
	}
	return g.rows[g.cursor].Node, true
}

// SelectedID returns the commit id under the cursor, or "".
func (g *GraphPanel) SelectedID() string {
	if t, ok := g.Selected(); ok {
		return t.Info.ID
	}
	return ""
}

// Select moves the cursor to id. A rebased commit appears twice; the copy
// at its new position wins over the old one.
func (g *GraphPanel) Select(id string) bool {
	found := -1
	for i, r := range g.rows {
		if r.ID() != id {
			continue
		}
		if found < 0 || g.rows[found].Node.Tag == preview.RebaseOld {
			found = i
		}
	}
	if found < 0 {
		return false
	}
	g.cursor = found
	g.render()
	return true
}

// Move shifts the cursor by delta rows and reports whether it moved.
func (g *GraphPanel) Move(delta int) bool {
	next := min(max(g.cursor+delta, 0), len(g.rows)-1)
	if next < 0 || next == g.cursor {
		return false
	}
	g.cursor = next
	g.render()
	return true
}

func (g *GraphPanel) Init() tea.Cmd {
	return nil
}

func (g *GraphPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.MouseMsg); ok {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			g.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			g.viewport.LineDown(3)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress {
				g.selectLine(msg.Y - 1 + g.viewport.YOffset)
			}
		}
	}
	return g, nil
}

func (g *GraphPanel) selectLine(line int) {
	for i := len(g.starts) - 1; i >= 0; i-- {
		if line >= g.starts[i] {
			g.cursor = i
			g.render()
			return
		}
	}
}

func (g *GraphPanel) View() string {
	if !g.ready {
		return g.RenderFrame("Loading commits...")
	}
	if len(g.rows) == 0 {
		return g.RenderFrame(theme.DimmedStyle.Render("  no commits"))
	}
	return g.RenderFrame(g.viewport.View())
}

// SetSize resizes the panel and viewport.
func (g *GraphPanel) SetSize(width, height int) {
	g.BasePanel.SetSize(width, height)
	if !g.ready {
		g.viewport = viewport.New(g.ContentWidth(), g.ContentHeight())
		g.ready = true
	} else {
		g.viewport.Width = g.ContentWidth()
		g.viewport.Height = g.ContentHeight()
	}
	g.render()
}

func (g *GraphPanel) render() {
	var lines []string
	g.starts = g.starts[:0]
	for i, r := range g.rows {
		g.starts = append(g.starts, len(lines))
		line := r.Prefix + g.describe(r.Node)
		if i == g.cursor {
			line = theme.CursorLineStyle.Render(truncate(line, g.ContentWidth()))
		}
		lines = append(lines, line)
		if r.Connector != "" {
			lines = append(lines, r.Connector)
		}
	}
	if !g.ready {
		return
	}

	g.viewport.SetContent(strings.Join(lines, "\n"))
	if g.cursor < len(g.starts) {
		top := g.starts[g.cursor]
		switch {
		case top < g.viewport.YOffset:
			g.viewport.SetYOffset(top)
		case top >= g.viewport.YOffset+g.viewport.Height:
			g.viewport.SetYOffset(top - g.viewport.Height + 2)
		}
	}
}

// describe renders the text right of the graph for one commit.
func (g *GraphPanel) describe(t *preview.Tree) string {
	info := t.Info
	if info.IsUnknownRoot() {
		return theme.DimmedStyle.Render("(commits with unknown parents)")
	}

	var parts []string
	if g.grabbed == info.ID && t.Tag != preview.RebaseOld {
		parts = append(parts, theme.HeadStyle.Render("»"))
	}
	parts = append(parts, g.ids.Format(info.ChangeID, theme.ChangeIDPrefixStyle, theme.ChangeIDRestStyle))

	title := info.Title
	if title == "" {
		title = "(no description)"
	}
	parts = append(parts, theme.TagStyle(t.Tag).Render(title))

	if len(info.Bookmarks) > 0 {
		parts = append(parts, theme.BookmarkStyle.Render(strings.Join(info.Bookmarks, " ")))
	}
	if info.PR != nil {
		parts = append(parts, theme.DimmedStyle.Render(fmt.Sprintf("#%d", info.PR.Number)))
	}
	if t.Tag != preview.None && t.Tag != preview.NonActionableCommit {
		parts = append(parts, theme.DimmedStyle.Render("["+t.Tag.String()+"]"))
	}
	return strings.Join(parts, " ")
}

// Ensure GraphPanel implements Panel
var _ Panel = (*GraphPanel)(nil)
