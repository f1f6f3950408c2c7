package panels

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/ui/theme"
)

// Status is what the status panel shows.
type Status struct {
	HeadID        string
	HeadTitle     string
	Bookmark      string // nearest bookmark at or below the head
	Dirty         bool
	Busy          bool
	Watching      bool
	LastRefresh   time.Time
	RefreshFailed error
}

// StatusPanel summarizes the workspace: where the head is, whether the
// working copy is dirty and whether jj is busy.
type StatusPanel struct {
	BasePanel
	status Status
	now    func() time.Time
}

// NewStatusPanel creates an empty status panel.
func NewStatusPanel() *StatusPanel {
	return &StatusPanel{BasePanel: NewBasePanel("0 Status"), now: time.Now}
}

// SetStatus replaces the shown status.
func (p *StatusPanel) SetStatus(s Status) {
	p.status = s
}

// Lines returns how many content lines the panel wants.
func (p *StatusPanel) Lines() int {
	if p.status.RefreshFailed != nil {
		return 4
	}
	return 3
}

func (p *StatusPanel) Init() tea.Cmd {
	return nil
}

func (p *StatusPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return p, nil
}

func (p *StatusPanel) View() string {
	s := p.status
	width := p.ContentWidth()

	head := theme.DimmedStyle.Render("no head")
	if s.HeadID != "" {
		head = theme.HeadStyle.Render("@ "+operation.Short(s.HeadID)) + " " + theme.NormalItemStyle.Render(s.HeadTitle)
	}
	if s.Bookmark != "" {
		head += theme.DimmedStyle.Render(" on ") + theme.BookmarkStyle.Render(s.Bookmark)
	}

	wc := theme.DimmedStyle.Render("clean")
	if s.Dirty {
		wc = theme.ErrorStyle.Render("uncommitted changes")
	}
	if s.Busy {
		wc += " " + busyLabel
	}

	refresh := "never refreshed"
	if !s.LastRefresh.IsZero() {
		refresh = fmt.Sprintf("refreshed %s ago", p.now().Sub(s.LastRefresh).Round(time.Second))
	}
	if s.Watching {
		refresh += ", watching"
	}

	lines := []string{
		truncate(head, width),
		truncate(wc, width),
		truncate(theme.DimmedStyle.Render(refresh), width),
	}
	if s.RefreshFailed != nil {
		lines = append(lines, truncate(theme.ErrorStyle.Render(s.RefreshFailed.Error()), width))
	}
	return p.RenderFrame(pad(lines, p.ContentHeight()))
}

var busyLabel = theme.HeadStyle.Render("● jj running")

// Ensure StatusPanel implements Panel
var _ Panel = (*StatusPanel)(nil)
