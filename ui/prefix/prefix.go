// Package prefix computes the shortest unambiguous prefixes of commit and
// change ids so the graph can highlight what the user needs to type.
package prefix

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// MinPrefixLen is the shortest prefix ever shown.
const MinPrefixLen = 1

// ComputeUniquePrefixes returns the unique prefix length of every id. After
// sorting, the longest common prefix of an id with any other id is the one
// it shares with a neighbor.
func ComputeUniquePrefixes(ids []string) map[string]int {
	sorted := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	result := make(map[string]int, len(sorted))
	for i, id := range sorted {
		n := MinPrefixLen
		if i > 0 {
			n = max(n, common(id, sorted[i-1])+1)
		}
		if i < len(sorted)-1 {
			n = max(n, common(id, sorted[i+1])+1)
		}
		result[id] = min(n, len(id))
	}
	return result
}

func common(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// FormatWithPrefix renders the first prefixLen bytes of id in prefixStyle
// and the rest of the shown id, up to shownLen, in restStyle.
func FormatWithPrefix(id string, prefixLen, shownLen int, prefixStyle, restStyle lipgloss.Style) string {
	if id == "" {
		return ""
	}
	if shownLen <= 0 || shownLen > len(id) {
		shownLen = len(id)
	}
	prefixLen = max(prefixLen, MinPrefixLen)
	if prefixLen >= shownLen {
		return prefixStyle.Render(id[:min(prefixLen, len(id))])
	}
	return prefixStyle.Render(id[:prefixLen]) + restStyle.Render(id[prefixLen:shownLen])
}

// IDSet caches the prefixes of one snapshot.
type IDSet struct {
	prefixes map[string]int
	shown    int
}

// NewIDSet computes prefixes for ids. Rendered ids are cut to shown bytes
// unless the unique prefix is longer.
func NewIDSet(ids []string, shown int) *IDSet {
	return &IDSet{prefixes: ComputeUniquePrefixes(ids), shown: shown}
}

// PrefixLen returns the unique prefix length of id, or MinPrefixLen when
// id is unknown.
func (s *IDSet) PrefixLen(id string) int {
	if n, ok := s.prefixes[id]; ok {
		return n
	}
	return MinPrefixLen
}

// Format renders id with its unique prefix highlighted.
func (s *IDSet) Format(id string, prefixStyle, restStyle lipgloss.Style) string {
	return FormatWithPrefix(id, s.PrefixLen(id), s.shown, prefixStyle, restStyle)
}
