package floating

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjgraph/ui/borders"
	"github.com/gerunddev/jjgraph/ui/theme"
)

// ConfirmOverlay is a floating Yes/No confirmation dialog
type ConfirmOverlay struct {
	title    string
	message  string
	width    int
	height   int
	selected int // 0 = Yes, 1 = No
}

// NewConfirmOverlay creates a new confirmation dialog. Yes is preselected
// when defaultYes is set.
func NewConfirmOverlay(title, message string, defaultYes bool) *ConfirmOverlay {
	c := &ConfirmOverlay{title: title, message: message, selected: 1}
	if defaultYes {
		c.selected = 0
	}
	return c
}

func (c *ConfirmOverlay) Init() tea.Cmd {
	return nil
}

func (c *ConfirmOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "left", "h", "y", "Y":
			c.selected = 0
		case "right", "l", "n", "N":
			c.selected = 1
		case "tab":
			c.selected = (c.selected + 1) % 2
		}
	}
	return c, nil
}

func (c *ConfirmOverlay) View() string {
	yesStyle := theme.HelpDescStyle
	noStyle := theme.HelpDescStyle
	if c.selected == 0 {
		yesStyle = theme.SelectedItemStyle
	} else {
		noStyle = theme.SelectedItemStyle
	}

	lines := []string{""}
	for _, l := range wrapText(c.message, 54) {
		lines = append(lines, "  "+l)
	}
	lines = append(lines, "", "        "+yesStyle.Render("[ Yes ]")+"    "+noStyle.Render("[ No ]"))

	return borders.Window(c.title, strings.Join(lines, "\n"), c.width, c.height, 60, len(lines)+3)
}

func (c *ConfirmOverlay) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Confirmed returns true if Yes is selected
func (c *ConfirmOverlay) Confirmed() bool {
	return c.selected == 0
}
