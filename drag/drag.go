// Package drag validates drag-to-rebase gestures. A Session lives for one
// gesture: it is created at drag start, proposes a rebase every time the
// pointer enters a legal destination, and ends on release or abort.
package drag

import (
	"errors"
	"fmt"

	"github.com/gerunddev/jjgraph/logging"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/tree"
)

var (
	// ErrUncommittedChanges aborts a drag while the working copy is dirty.
	ErrUncommittedChanges = errors.New("working copy has uncommitted changes")

	// ErrNotDraggable is returned for public commits and for commits whose
	// preview tag forbids dragging.
	ErrNotDraggable = errors.New("commit cannot be dragged")

	// ErrUnknownCommit is returned for ids missing from the tree.
	ErrUnknownCommit = errors.New("unknown commit")

	// ErrSameCommit rejects dropping a commit onto itself.
	ErrSameCommit = errors.New("destination is the dragged commit")

	// ErrDescendant rejects destinations inside the dragged subtree.
	ErrDescendant = errors.New("destination is a descendant of the dragged commit")

	// ErrAlreadyParent rejects rebases that would change nothing.
	ErrAlreadyParent = errors.New("destination is already the parent")

	// ErrSessionClosed is returned after End or Abort.
	ErrSessionClosed = errors.New("drag already finished")
)

// Slot holds the single previewed operation. *runner.Runner implements it.
type Slot interface {
	SetPreview(op operation.Operation) runner.Entry
	Preview() (runner.Entry, bool)
	CancelPreview() bool
}

var _ Slot = (*runner.Runner)(nil)

// Session is the state of one drag gesture.
type Session struct {
	source  *tree.Tree
	treeMap tree.Map
	slot    Slot

	proposed *operation.Rebase
	closed   bool
}

// Start begins dragging sourceID. tag is the source's tag in the derived
// tree.
func Start(sourceID string, m tree.Map, tag preview.Tag, hasUncommittedChanges bool, slot Slot) (*Session, error) {
	if hasUncommittedChanges {
		return nil, ErrUncommittedChanges
	}
	source, ok := m[sourceID]
	if !ok {
		return nil, fmt.Errorf("drag %s: %w", operation.Short(sourceID), ErrUnknownCommit)
	}
	if source.Info.PartOfTrunk || source.Info.IsUnknownRoot() || !tag.Draggable() {
		return nil, fmt.Errorf("drag %s: %w", operation.Short(sourceID), ErrNotDraggable)
	}

	logging.With("drag").Debug("drag started", "source", sourceID)
	return &Session{source: source, treeMap: m, slot: slot}, nil
}

// Source returns the id of the dragged commit.
func (s *Session) Source() string {
	return s.source.Info.ID
}

// Proposed returns the rebase currently installed by this session.
func (s *Session) Proposed() (*operation.Rebase, bool) {
	return s.proposed, s.proposed != nil
}

// Check reports whether dropping on destID would be legal, without
// installing anything.
func (s *Session) Check(destID string) error {
	src := s.source.Info
	switch {
	case destID == src.ID:
		return ErrSameCommit
	case destID == tree.UnknownRootID:
		return ErrNotDraggable
	}
	if _, ok := s.treeMap[destID]; !ok {
		return fmt.Errorf("drop on %s: %w", operation.Short(destID), ErrUnknownCommit)
	}
	if tree.IsDescendant(destID, s.source) {
		return ErrDescendant
	}
	for _, p := range src.Parents {
		if p == destID {
			return ErrAlreadyParent
		}
	}
	return nil
}

// Enter handles the pointer entering destID. A legal destination replaces
// the previewed operation with Rebase(source, destID). An illegal one is a
// no-op that reports why. If the runner refuses the rebase, the slot ends up
// empty and the session has nothing proposed.
func (s *Session) Enter(destID string) (*operation.Rebase, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if err := s.Check(destID); err != nil {
		return nil, err
	}
	if s.proposed != nil && s.proposed.Dest == destID && s.holdsProposed() {
		return s.proposed, nil
	}

	op, err := operation.NewRebase(s.source.Info.ID, destID)
	if err != nil {
		return nil, err
	}
	entry := s.slot.SetPreview(op)
	if entry.State == runner.Failed {
		s.proposed = nil
		return nil, fmt.Errorf("drop on %s: %w", operation.Short(destID), entry.Err)
	}
	s.proposed = op
	return op, nil
}

// holdsProposed reports whether the slot still previews this session's
// rebase.
func (s *Session) holdsProposed() bool {
	entry, ok := s.slot.Preview()
	return ok && entry.Op.Key() == s.proposed.Key()
}

// End finishes the gesture and leaves any proposed rebase in the slot for
// confirmation.
func (s *Session) End() (*operation.Rebase, bool) {
	s.closed = true
	if s.proposed != nil && !s.holdsProposed() {
		s.proposed = nil
	}
	return s.Proposed()
}

// Abort finishes the gesture and discards the proposed rebase.
func (s *Session) Abort() {
	if s.closed {
		return
	}
	s.closed = true
	if s.proposed != nil {
		if s.holdsProposed() {
			s.slot.CancelPreview()
		}
		s.proposed = nil
	}
}
