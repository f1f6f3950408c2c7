package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func hintKeys(hints []HelpHint) []string {
	keys := make([]string, len(hints))
	for i, h := range hints {
		keys[i] = h.Key
	}
	return keys
}

// TestGetActionHints tests action hints per mode and panel
func TestGetActionHints(t *testing.T) {
	tests := []struct {
		name         string
		ctx          HelpBarContext
		expectedKeys []string
	}{
		{
			name:         "Graph on a plain commit",
			ctx:          HelpBarContext{Mode: ModeBrowse, Focus: FocusGraph},
			expectedKeys: []string{"r", "g", "h", "m"},
		},
		{
			name:         "Graph on the head",
			ctx:          HelpBarContext{Mode: ModeBrowse, Focus: FocusGraph, HeadSelected: true},
			expectedKeys: []string{"r", "g", "h", "m", "u"},
		},
		{
			name:         "Dirty working copy hides rebase and uncommit",
			ctx:          HelpBarContext{Mode: ModeBrowse, Focus: FocusGraph, HeadSelected: true, Dirty: true},
			expectedKeys: []string{"g", "h", "m"},
		},
		{
			name:         "Blocked commit",
			ctx:          HelpBarContext{Mode: ModeBrowse, Focus: FocusGraph, Blocked: true},
			expectedKeys: []string{},
		},
		{
			name:         "Dragging",
			ctx:          HelpBarContext{Mode: ModeDragging, Focus: FocusGraph, Blocked: true},
			expectedKeys: []string{"↵", "esc"},
		},
		{
			name:         "Preview waiting",
			ctx:          HelpBarContext{Mode: ModePreview, Focus: FocusGraph},
			expectedKeys: []string{"y", "esc"},
		},
		{
			name:         "Bookmarks",
			ctx:          HelpBarContext{Mode: ModeBrowse, Focus: FocusBookmarks},
			expectedKeys: []string{"↵"},
		},
		{
			name:         "Operations",
			ctx:          HelpBarContext{Mode: ModeBrowse, Focus: FocusOperations},
			expectedKeys: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hintKeys(getActionHints(tt.ctx))
			if strings.Join(got, ",") != strings.Join(tt.expectedKeys, ",") {
				t.Errorf("Expected keys %v, got %v", tt.expectedKeys, got)
			}
		})
	}
}

// TestGetNavigationHints tests navigation hints
func TestGetNavigationHints(t *testing.T) {
	tests := []struct {
		name          string
		ctx           HelpBarContext
		expectedCount int
	}{
		{name: "Graph", ctx: HelpBarContext{Focus: FocusGraph}, expectedCount: 2},
		{name: "Dragging", ctx: HelpBarContext{Mode: ModeDragging}, expectedCount: 1},
		{name: "Bookmarks", ctx: HelpBarContext{Focus: FocusBookmarks}, expectedCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := getNavigationHints(tt.ctx)
			if len(hints) != tt.expectedCount {
				t.Errorf("Expected %d hints, got %d", tt.expectedCount, len(hints))
			}
		})
	}
}

// TestGetAlwaysHints verifies the right section never changes
func TestGetAlwaysHints(t *testing.T) {
	hints := getAlwaysHints()
	expected := []string{"tab", "?", "q"}
	if got := hintKeys(hints); strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

// TestFormatHints verifies hints are joined with double spaces
func TestFormatHints(t *testing.T) {
	if got := formatHints(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}

	out := formatHints([]HelpHint{{Key: "a", Desc: "one"}, {Key: "b", Desc: "two"}})
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Errorf("Expected both descriptions in %q", out)
	}
}

// TestRenderContextualHelpBar verifies the bar fits the given width
func TestRenderContextualHelpBar(t *testing.T) {
	ctx := HelpBarContext{Mode: ModeBrowse, Focus: FocusGraph}

	for _, width := range []int{40, 80, 160} {
		bar := RenderContextualHelpBar(ctx, width)
		if strings.Contains(bar, "\n") && width >= 160 {
			t.Errorf("Expected a single line at width %d, got %q", width, bar)
		}
		for _, line := range strings.Split(bar, "\n") {
			if w := lipgloss.Width(line); w > width {
				t.Errorf("Expected width <= %d, got %d", width, w)
			}
		}
	}
}
