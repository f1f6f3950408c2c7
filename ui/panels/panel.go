package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/ui/borders"
)

// Panel defines the interface for all panels
type Panel interface {
	tea.Model
	Title() string
	SetFocused(bool)
	IsFocused() bool
	SetSize(width, height int)
}

// BasePanel provides common functionality for all panels
type BasePanel struct {
	title   string
	focused bool
	width   int
	height  int
	cursor  int
	offset  int // first visible item
}

// NewBasePanel creates a new base panel
func NewBasePanel(title string) BasePanel {
	return BasePanel{title: title}
}

func (b *BasePanel) Title() string {
	return b.title
}

func (b *BasePanel) SetFocused(focused bool) {
	b.focused = focused
}

func (b *BasePanel) IsFocused() bool {
	return b.focused
}

func (b *BasePanel) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b *BasePanel) Width() int {
	return b.width
}

func (b *BasePanel) Height() int {
	return b.height
}

func (b *BasePanel) Cursor() int {
	return b.cursor
}

// ContentHeight returns the height available for content (minus borders)
func (b *BasePanel) ContentHeight() int {
	return max(b.height-2, 0)
}

// ContentWidth returns the width available for content (minus borders)
func (b *BasePanel) ContentWidth() int {
	return max(b.width-2, 0)
}

// RenderFrame renders the panel frame with title embedded in border
func (b *BasePanel) RenderFrame(content string) string {
	return borders.RenderTitledBorder(content, b.title, b.width, b.height, b.focused)
}

// CursorUp moves the cursor up within bounds
func (b *BasePanel) CursorUp() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// CursorDown moves the cursor down within bounds
func (b *BasePanel) CursorDown(itemCount int) {
	if b.cursor < itemCount-1 {
		b.cursor++
	}
}

// ClampCursor keeps the cursor on an existing item after the list changed.
func (b *BasePanel) ClampCursor(itemCount int) {
	if b.cursor >= itemCount {
		b.cursor = itemCount - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// visible returns the window of items [from, to) that keeps the cursor on
// screen given linesPerItem rows per item.
func (b *BasePanel) visible(itemCount, linesPerItem int) (int, int) {
	rows := max(b.ContentHeight()/max(linesPerItem, 1), 1)
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+rows {
		b.offset = b.cursor - rows + 1
	}
	b.offset = min(b.offset, max(itemCount-rows, 0))
	return b.offset, min(b.offset+rows, itemCount)
}

// truncate cuts a styled or plain string to width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// pad fills lines up to height with blanks.
func pad(lines []string, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
