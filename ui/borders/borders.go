// Package borders draws panel frames with the title embedded in the top
// border, and the centered floating windows.
package borders

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/ui/theme"
)

// Rounded border pieces.
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
)

// RenderTitledBorder frames content in a width x height box whose top edge
// carries title.
func RenderTitledBorder(content, title string, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}

	color := theme.UnfocusedBorderColor
	titleStyle := theme.TitleStyle
	if focused {
		color = theme.FocusedBorderColor
		titleStyle = theme.FocusedTitleStyle
	}
	border := lipgloss.NewStyle().Foreground(color)

	innerWidth := width - 2
	innerHeight := height - 2

	styledTitle := titleStyle.Render(" " + title + " ")
	fill := innerWidth - 1 - lipgloss.Width(styledTitle)
	if fill < 0 {
		styledTitle = ""
		fill = innerWidth - 1
	}

	out := make([]string, 0, height)
	out = append(out, border.Render(TopLeft+Horizontal)+styledTitle+
		border.Render(strings.Repeat(Horizontal, fill)+TopRight))

	lines := strings.Split(content, "\n")
	for i := 0; i < innerHeight; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		line = fit(line, innerWidth)
		out = append(out, border.Render(Vertical)+line+border.Render(Vertical))
	}

	out = append(out, border.Render(BottomLeft+strings.Repeat(Horizontal, innerWidth)+BottomRight))
	return strings.Join(out, "\n")
}

// fit pads or cuts a styled line to exactly width cells.
func fit(line string, width int) string {
	w := lipgloss.Width(line)
	if w > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line + strings.Repeat(" ", width-w)
}

// Window renders content in a rounded window of windowWidth x windowHeight
// centered in a screen of width x height.
func Window(title, content string, width, height, windowWidth, windowHeight int) string {
	windowWidth = min(windowWidth, width-4)
	windowHeight = min(windowHeight, height-2)
	if windowWidth < 4 || windowHeight < 3 {
		return content
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorYellow).
		Width(windowWidth - 2).
		Height(windowHeight - 2).
		Render(content)

	lines := strings.Split(box, "\n")
	border := lipgloss.NewStyle().Foreground(theme.ColorYellow)
	styledTitle := theme.FloatingTitleStyle.Render(" " + title + " ")
	remaining := max(windowWidth-3-lipgloss.Width(styledTitle), 0)
	lines[0] = border.Render(TopLeft+Horizontal) + styledTitle +
		border.Render(strings.Repeat(Horizontal, remaining)+TopRight)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}
