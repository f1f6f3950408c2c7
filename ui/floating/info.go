package floating

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjgraph/ui/borders"
	"github.com/gerunddev/jjgraph/ui/theme"
)

// InfoOverlay is a floating information/error dialog with OK button
type InfoOverlay struct {
	title   string
	message string
	width   int
	height  int
}

// NewInfoOverlay creates a new information dialog
func NewInfoOverlay(title, message string) *InfoOverlay {
	return &InfoOverlay{title: title, message: message}
}

func (i *InfoOverlay) Init() tea.Cmd {
	return nil
}

// Update does nothing; any key dismisses the overlay in the caller.
func (i *InfoOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return i, nil
}

func (i *InfoOverlay) View() string {
	maxWidth := min(56, i.width-8)

	lines := []string{""}
	for _, l := range wrapText(i.message, maxWidth) {
		lines = append(lines, "  "+l)
	}
	lines = append(lines, "", "        "+theme.SelectedItemStyle.Render("[ OK ]"))

	return borders.Window(i.title, strings.Join(lines, "\n"), i.width, i.height, 60, len(lines)+3)
}

func (i *InfoOverlay) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// wrapText wraps text to a maximum width. Newlines in text are kept.
func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var cur strings.Builder
		for _, word := range words {
			switch {
			case cur.Len() == 0:
				cur.WriteString(word)
			case cur.Len()+1+len(word) <= maxWidth:
				cur.WriteString(" ")
				cur.WriteString(word)
			default:
				lines = append(lines, cur.String())
				cur.Reset()
				cur.WriteString(word)
			}
		}
		lines = append(lines, cur.String())
	}
	return lines
}
