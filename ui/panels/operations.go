package panels

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/ui/theme"
)

var stateStyles = map[runner.State]lipgloss.Style{
	runner.Previewed: lipgloss.NewStyle().Foreground(theme.ColorYellow),
	runner.Queued:    lipgloss.NewStyle().Foreground(theme.ColorBlue),
	runner.Running:   lipgloss.NewStyle().Foreground(theme.ColorOrange).Bold(true),
	runner.Completed: lipgloss.NewStyle().Foreground(theme.ColorGreen),
	runner.Failed:    theme.ErrorStyle,
	runner.Cancelled: theme.DimmedStyle,
}

var stateIcons = map[runner.State]string{
	runner.Previewed: "◇",
	runner.Queued:    "○",
	runner.Running:   "●",
	runner.Completed: "✓",
	runner.Failed:    "✗",
	runner.Cancelled: "-",
}

// OperationsPanel lists the operation queue: the preview, active entries
// and the most recent finished ones.
type OperationsPanel struct {
	BasePanel
	entries []runner.Entry
}

// NewOperationsPanel creates an empty operations panel.
func NewOperationsPanel() *OperationsPanel {
	return &OperationsPanel{BasePanel: NewBasePanel("3 Operations")}
}

// SetEntries shows the runner's state. Newest entries come first.
func (p *OperationsPanel) SetEntries(r *runner.Runner) {
	var entries []runner.Entry
	if e, ok := r.Preview(); ok {
		entries = append(entries, e)
	}
	active := r.Entries()
	for i := len(active) - 1; i >= 0; i-- {
		entries = append(entries, active[i])
	}
	history := r.History()
	for i := len(history) - 1; i >= 0; i-- {
		entries = append(entries, history[i])
	}
	p.entries = entries
	p.ClampCursor(len(entries))
}

// Count returns the number of listed entries.
func (p *OperationsPanel) Count() int {
	return len(p.entries)
}

// Selected returns the entry under the cursor.
func (p *OperationsPanel) Selected() (runner.Entry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return runner.Entry{}, false
	}
	return p.entries[p.cursor], true
}

func (p *OperationsPanel) Init() tea.Cmd {
	return nil
}

func (p *OperationsPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k", "ctrl+p":
			p.CursorUp()
		case "down", "j", "ctrl+n":
			p.CursorDown(len(p.entries))
		}
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			if i := p.offset + msg.Y - 1; i >= 0 && i < len(p.entries) {
				p.cursor = i
			}
		}
	}
	return p, nil
}

func (p *OperationsPanel) View() string {
	if len(p.entries) == 0 {
		return p.RenderFrame(pad([]string{theme.DimmedStyle.Render("  nothing queued")}, p.ContentHeight()))
	}

	width := p.ContentWidth()
	from, to := p.visible(len(p.entries), 1)
	var lines []string
	for i := from; i < to; i++ {
		e := p.entries[i]
		style := stateStyles[e.State]

		label := e.Op.Describe()
		if e.State == runner.Failed && e.Err != nil {
			label += ": " + e.Err.Error()
		}
		switch {
		case i == p.cursor && p.focused:
			label = theme.SelectedItemStyle.Render(label)
		case e.State.Terminal() || e.Retired:
			label = theme.DimmedStyle.Render(label)
		default:
			label = theme.NormalItemStyle.Render(label)
		}

		line := fmt.Sprintf("%s #%d %s", style.Render(stateIcons[e.State]), e.ID, label)
		lines = append(lines, truncate(line, width))
	}
	return p.RenderFrame(pad(lines, p.ContentHeight()))
}

// Ensure OperationsPanel implements Panel
var _ Panel = (*OperationsPanel)(nil)
