package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/ui/theme"
)

// Mode is what the graph is doing with keyboard input.
type Mode int

const (
	ModeBrowse   Mode = iota
	ModeDragging      // a commit is grabbed
	ModePreview       // an operation waits for confirmation
)

// Focus identifies the focused panel.
type Focus int

const (
	FocusGraph Focus = iota
	FocusBookmarks
	FocusOperations
)

// HelpBarContext captures the current UI state for help bar rendering
type HelpBarContext struct {
	Mode         Mode
	Focus        Focus
	Blocked      bool // selected commit's preview tag forbids actions
	Dirty        bool // working copy has uncommitted changes
	HeadSelected bool
}

// HelpHint represents a single hint (key + description)
type HelpHint struct {
	Key  string
	Desc string
}

// Format renders a hint as "key desc"
func (h HelpHint) Format() string {
	return theme.HelpKeyStyle.Render(h.Key) + " " + theme.HelpDescStyle.Render(h.Desc)
}

// getActionHints returns context-specific action hints (left section)
func getActionHints(ctx HelpBarContext) []HelpHint {
	switch ctx.Mode {
	case ModeDragging:
		return []HelpHint{{Key: "↵", Desc: "drop"}, {Key: "esc", Desc: "cancel"}}
	case ModePreview:
		return []HelpHint{{Key: "y", Desc: "run"}, {Key: "esc", Desc: "discard"}}
	}

	switch ctx.Focus {
	case FocusGraph:
		if ctx.Blocked {
			return nil
		}
		var hints []HelpHint
		if !ctx.Dirty {
			hints = append(hints, HelpHint{Key: "r", Desc: "rebase"})
		}
		hints = append(hints,
			HelpHint{Key: "g", Desc: "goto"},
			HelpHint{Key: "h", Desc: "hide"},
			HelpHint{Key: "m", Desc: "message"},
		)
		if ctx.HeadSelected && !ctx.Dirty {
			hints = append(hints, HelpHint{Key: "u", Desc: "uncommit"})
		}
		return hints
	case FocusBookmarks:
		return []HelpHint{{Key: "↵", Desc: "goto"}}
	case FocusOperations:
		return []HelpHint{{Key: "x", Desc: "cancel"}}
	}
	return nil
}

// getNavigationHints returns context-specific navigation hints (center section)
func getNavigationHints(ctx HelpBarContext) []HelpHint {
	if ctx.Mode == ModeDragging {
		return []HelpHint{{Key: "↑↓", Desc: "destination"}}
	}
	if ctx.Focus == FocusGraph {
		return []HelpHint{{Key: "↑↓", Desc: "select"}, {Key: "@", Desc: "head"}}
	}
	return []HelpHint{{Key: "↑↓", Desc: "select"}}
}

// getAlwaysHints returns hints that are always shown (right section)
func getAlwaysHints() []HelpHint {
	return []HelpHint{
		{Key: "tab", Desc: "panels"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}
}

// formatHints joins hints with double spaces
func formatHints(hints []HelpHint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = h.Format()
	}
	return strings.Join(parts, "  ")
}

// RenderContextualHelpBar renders the three-section help bar
func RenderContextualHelpBar(ctx HelpBarContext, width int) string {
	left := formatHints(getActionHints(ctx))
	center := formatHints(getNavigationHints(ctx))
	right := formatHints(getAlwaysHints())

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if width-(leftWidth+centerWidth+rightWidth) < 6 {
		return theme.HelpBarStyle.Width(width).Render(left + "  " + center + "  " + right)
	}

	// [left].....[center].....[right], center roughly in the middle.
	centerStart := width/2 - centerWidth/2
	leftToCenter := max(centerStart-leftWidth, 2)
	centerToRight := max(width-rightWidth-(centerStart+centerWidth), 2)

	bar := left + strings.Repeat(" ", leftToCenter) + center + strings.Repeat(" ", centerToRight) + right
	return theme.HelpBarStyle.Width(width).Render(bar)
}
