package floating

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/ui/borders"
	"github.com/gerunddev/jjgraph/ui/theme"
)

// MessageOverlay edits a commit message: a title line and a free-form
// description.
type MessageOverlay struct {
	title     string
	titleIn   textinput.Model
	body      textarea.Model
	bodyFocus bool
	width     int
	height    int
}

// NewMessageOverlay creates an editor prefilled with msg.
func NewMessageOverlay(windowTitle string, msg operation.Message) *MessageOverlay {
	ti := textinput.New()
	ti.Placeholder = "title"
	ti.SetValue(msg.Title)
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "description"
	ta.SetValue(msg.Description)
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.Blur()

	return &MessageOverlay{title: windowTitle, titleIn: ti, body: ta}
}

func (m *MessageOverlay) Init() tea.Cmd {
	return textinput.Blink
}

func (m *MessageOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "tab" {
		m.bodyFocus = !m.bodyFocus
		if m.bodyFocus {
			m.titleIn.Blur()
			return m, m.body.Focus()
		}
		m.body.Blur()
		return m, m.titleIn.Focus()
	}

	var cmd tea.Cmd
	if m.bodyFocus {
		m.body, cmd = m.body.Update(msg)
	} else {
		m.titleIn, cmd = m.titleIn.Update(msg)
	}
	return m, cmd
}

func (m *MessageOverlay) View() string {
	lines := []string{
		"",
		m.titleIn.View(),
		"",
		m.body.View(),
		"",
		theme.HelpDescStyle.Render("  tab switch field • ctrl+s save • esc cancel"),
	}
	content := strings.Join(lines, "\n")
	return borders.Window(m.title, content, m.width, m.height, 70, 16)
}

func (m *MessageOverlay) SetSize(width, height int) {
	m.width = width
	m.height = height

	inputWidth := max(min(60, width-10), 10)
	m.titleIn.Width = inputWidth
	m.body.SetWidth(inputWidth)
}

// Message returns the edited message.
func (m *MessageOverlay) Message() operation.Message {
	return operation.Message{
		Title:       strings.TrimSpace(m.titleIn.Value()),
		Description: strings.TrimSpace(m.body.Value()),
	}
}
