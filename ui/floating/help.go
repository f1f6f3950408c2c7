package floating

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/ui/borders"
	"github.com/gerunddev/jjgraph/ui/theme"
)

// HelpOverlay is a floating window showing help information
type HelpOverlay struct {
	viewport viewport.Model
	help     help.Model
	keymap   help.KeyMap
	width    int
	height   int
	ready    bool
}

// NewHelpOverlay creates a new floating help window
func NewHelpOverlay(keymap help.KeyMap) *HelpOverlay {
	h := help.New()
	h.ShowAll = true
	return &HelpOverlay{help: h, keymap: keymap}
}

func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			h.viewport.LineUp(3)
		case tea.MouseButtonWheelDown:
			h.viewport.LineDown(3)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			h.viewport.LineUp(1)
		case "down", "j":
			h.viewport.LineDown(1)
		case "pgup", "ctrl+u":
			h.viewport.HalfViewUp()
		case "pgdown", "ctrl+d":
			h.viewport.HalfViewDown()
		}
	}
	return h, nil
}

func (h *HelpOverlay) View() string {
	if !h.ready {
		return ""
	}
	return borders.Window("Help", h.viewport.View(), h.width, h.height, 80, h.height-2)
}

func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height

	contentWidth := min(80, width-4) - 2
	contentHeight := height - 6
	if !h.ready {
		h.viewport = viewport.New(contentWidth, contentHeight)
		h.ready = true
	} else {
		h.viewport.Width = contentWidth
		h.viewport.Height = contentHeight
	}
	h.viewport.SetContent(h.renderHelp())
}

func (h *HelpOverlay) renderHelp() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorYellow).MarginTop(1)
	body := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	h.help.Width = h.viewport.Width
	sections := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render("jjgraph - drag and drop for Jujutsu"),
		h.help.View(h.keymap),
		heading.Render("Rebasing"),
		body.Render("• r grabs the commit under the cursor\n" +
			"• moving the cursor previews the rebase onto the commit below it\n" +
			"• enter drops, y runs the previewed rebase, esc cancels"),
		heading.Render("Previews"),
		body.Render("• every action is shown in the graph before jj finishes\n" +
			"• hide asks for confirmation first\n" +
			"• the operations panel lists queued, running and failed commands\n" +
			"• x cancels a queued operation"),
	}
	return strings.Join(sections, "\n")
}
