// Package theme holds the colors and lipgloss styles shared by the UI.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/preview"
)

// Palette
var (
	ColorYellow     = lipgloss.Color("#E5C07B")
	ColorOrange     = lipgloss.Color("#D19A66")
	ColorRed        = lipgloss.Color("#E06C75")
	ColorMagenta    = lipgloss.Color("#C678DD")
	ColorBlue       = lipgloss.Color("#61AFEF")
	ColorCyan       = lipgloss.Color("#56B6C2")
	ColorGreen      = lipgloss.Color("#98C379")
	ColorWhite      = lipgloss.Color("#ABB2BF")
	ColorDimWhite   = lipgloss.Color("#5C6370")
	ColorBackground = lipgloss.Color("#282C34")
	ColorSurface    = lipgloss.Color("#3E4451")
)

// Panels
var (
	FocusedBorderColor   = ColorYellow
	UnfocusedBorderColor = ColorDimWhite

	TitleStyle        = lipgloss.NewStyle().Foreground(ColorDimWhite)
	FocusedTitleStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)

	SelectedItemStyle = lipgloss.NewStyle().Foreground(ColorBackground).Background(ColorYellow)
	CursorLineStyle   = lipgloss.NewStyle().Background(ColorSurface)
	NormalItemStyle   = lipgloss.NewStyle().Foreground(ColorWhite)
	DimmedStyle       = lipgloss.NewStyle().Foreground(ColorDimWhite)
	ErrorStyle        = lipgloss.NewStyle().Foreground(ColorRed)
)

// Commits
var (
	ChangeIDPrefixStyle = lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
	ChangeIDRestStyle   = lipgloss.NewStyle().Foreground(ColorDimWhite)
	BookmarkStyle       = lipgloss.NewStyle().Foreground(ColorGreen)
	TimestampStyle      = lipgloss.NewStyle().Foreground(ColorCyan)
	HeadStyle           = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	TrunkStyle          = lipgloss.NewStyle().Foreground(ColorBlue)
	CommitStyle         = lipgloss.NewStyle().Foreground(ColorWhite)
	LineStyle           = lipgloss.NewStyle().Foreground(ColorDimWhite)
)

// Overlays and help
var (
	FloatingTitleStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)

	HelpBarStyle  = lipgloss.NewStyle().Foreground(ColorDimWhite)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorYellow)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorDimWhite)
)

// Layout
const (
	SidebarWidth    = 40
	SidebarMinWidth = 30
	SidebarMaxWidth = 60
)

var tagStyles = map[preview.Tag]lipgloss.Style{
	preview.RebaseRoot:                 lipgloss.NewStyle().Foreground(ColorYellow).Bold(true),
	preview.RebaseDescendant:           lipgloss.NewStyle().Foreground(ColorYellow),
	preview.RebaseOld:                  lipgloss.NewStyle().Foreground(ColorDimWhite).Strikethrough(true),
	preview.RebaseOptimisticRoot:       lipgloss.NewStyle().Foreground(ColorOrange).Italic(true).Bold(true),
	preview.RebaseOptimisticDescendant: lipgloss.NewStyle().Foreground(ColorOrange).Italic(true),
	preview.HiddenRoot:                 lipgloss.NewStyle().Foreground(ColorRed).Strikethrough(true).Bold(true),
	preview.HiddenDescendant:           lipgloss.NewStyle().Foreground(ColorRed).Strikethrough(true),
	preview.GotoDestination:            lipgloss.NewStyle().Foreground(ColorGreen).Italic(true),
	preview.GotoPreviousLocation:       lipgloss.NewStyle().Foreground(ColorDimWhite).Italic(true),
	preview.NonActionableCommit:        lipgloss.NewStyle().Foreground(ColorDimWhite),
}

// TagStyle returns the title style for a preview tag. Untagged commits use
// NormalItemStyle.
func TagStyle(tag preview.Tag) lipgloss.Style {
	if s, ok := tagStyles[tag]; ok {
		return s
	}
	return NormalItemStyle
}
