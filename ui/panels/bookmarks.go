package panels

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/ui/theme"
)

// Bookmark is a name pointing at a commit of the snapshot.
type Bookmark struct {
	Name      string
	CommitID  string
	IsCurrent bool // points at the head
}

// BookmarksPanel lists bookmarks; selecting one moves the head there.
type BookmarksPanel struct {
	BasePanel
	bookmarks []Bookmark
}

// NewBookmarksPanel creates an empty bookmarks panel.
func NewBookmarksPanel() *BookmarksPanel {
	return &BookmarksPanel{BasePanel: NewBasePanel("2 Bookmarks")}
}

// SetTree collects bookmarks from the authoritative tree, sorted by name.
func (p *BookmarksPanel) SetTree(m tree.Map) {
	var bookmarks []Bookmark
	for id, t := range m {
		for _, name := range t.Info.Bookmarks {
			bookmarks = append(bookmarks, Bookmark{Name: name, CommitID: id, IsCurrent: t.Info.IsHead})
		}
	}
	sort.Slice(bookmarks, func(i, j int) bool {
		return bookmarks[i].Name < bookmarks[j].Name
	})
	p.bookmarks = bookmarks
	p.ClampCursor(len(bookmarks))
}

// Count returns the number of bookmarks.
func (p *BookmarksPanel) Count() int {
	return len(p.bookmarks)
}

// Selected returns the bookmark under the cursor.
func (p *BookmarksPanel) Selected() (Bookmark, bool) {
	if p.cursor < 0 || p.cursor >= len(p.bookmarks) {
		return Bookmark{}, false
	}
	return p.bookmarks[p.cursor], true
}

func (p *BookmarksPanel) Init() tea.Cmd {
	return nil
}

func (p *BookmarksPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k", "ctrl+p":
			p.CursorUp()
		case "down", "j", "ctrl+n":
			p.CursorDown(len(p.bookmarks))
		}
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			if i := p.offset + msg.Y - 1; i >= 0 && i < len(p.bookmarks) {
				p.cursor = i
			}
		}
	}
	return p, nil
}

func (p *BookmarksPanel) View() string {
	if len(p.bookmarks) == 0 {
		return p.RenderFrame(pad([]string{theme.DimmedStyle.Render("  no bookmarks")}, p.ContentHeight()))
	}

	width := p.ContentWidth()
	from, to := p.visible(len(p.bookmarks), 1)
	var lines []string
	for i := from; i < to; i++ {
		bm := p.bookmarks[i]

		indicator := "  "
		if bm.IsCurrent {
			indicator = theme.HeadStyle.Render("● ")
		}

		name := truncate(bm.Name, width-2)
		if i == p.cursor && p.focused {
			name = theme.SelectedItemStyle.Render(name)
		} else {
			name = theme.BookmarkStyle.Render(name)
		}
		lines = append(lines, indicator+name)
	}
	return p.RenderFrame(pad(lines, p.ContentHeight()))
}

// Ensure BookmarksPanel implements Panel
var _ Panel = (*BookmarksPanel)(nil)
