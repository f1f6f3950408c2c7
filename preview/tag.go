package preview

// Tag explains why a node of the derived tree differs from authoritative
// state. The zero value means the node is shown as reported.
type Tag int

const (
	None Tag = iota
	RebaseRoot
	RebaseDescendant
	RebaseOld
	RebaseOptimisticRoot
	RebaseOptimisticDescendant
	HiddenRoot
	HiddenDescendant
	GotoDestination
	GotoPreviousLocation
	NonActionableCommit
)

var tagNames = [...]string{
	None:                       "none",
	RebaseRoot:                 "rebase-root",
	RebaseDescendant:           "rebase-descendant",
	RebaseOld:                  "rebase-old",
	RebaseOptimisticRoot:       "rebase-optimistic-root",
	RebaseOptimisticDescendant: "rebase-optimistic-descendant",
	HiddenRoot:                 "hidden-root",
	HiddenDescendant:           "hidden-descendant",
	GotoDestination:            "goto-destination",
	GotoPreviousLocation:       "goto-previous-location",
	NonActionableCommit:        "non-actionable",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "unknown"
	}
	return tagNames[t]
}

// Draggable reports whether a node with this tag may start a drag-rebase.
// Descendants of a previewed rebase are excluded since dragging one would
// reset part of the drag in progress; the root can be picked up again.
func (t Tag) Draggable() bool {
	switch t {
	case RebaseDescendant, RebaseOld, HiddenRoot, HiddenDescendant, NonActionableCommit:
		return false
	default:
		return true
	}
}

// BlocksActions reports whether goto, hide and rebase are refused on a node
// with this tag. The transient drag preview (RebaseRoot) stays draggable but
// accepts no other action.
func (t Tag) BlocksActions() bool {
	switch t {
	case RebaseRoot, RebaseDescendant, RebaseOld, HiddenRoot, HiddenDescendant, NonActionableCommit:
		return true
	default:
		return false
	}
}

// NeedsConfirmation reports whether the operation producing this tag waits
// for an explicit confirm before running.
func (t Tag) NeedsConfirmation() bool {
	return t == RebaseRoot || t == HiddenRoot
}
