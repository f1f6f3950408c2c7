// Package tree holds the authoritative commit tree: an immutable snapshot of
// commits rebuilt wholesale from the records the jj CLI reports on each
// refresh, plus the identity index used for ancestry queries.
package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// UnknownRootID identifies the synthetic root that collects commits whose
// parents are not part of the snapshot.
const UnknownRootID = "(unknown)"

// PullRequest links a commit to a code-review request.
type PullRequest struct {
	Number int
	URL    string
	State  string
}

// Node is a single commit record. Nodes are values: code that needs a
// different node makes a copy.
type Node struct {
	ID          string // commit id, unique within a snapshot
	ChangeID    string
	Title       string
	Description string
	Date        time.Time
	IsHead      bool // parent of the working-copy commit
	PartOfTrunk bool // immutable in jj terms
	PR          *PullRequest
	Bookmarks   []string
	Parents     []string
}

// IsUnknownRoot reports whether n is the synthetic root.
func (n Node) IsUnknownRoot() bool {
	return n.ID == UnknownRootID
}

// Tree is a node with the subtrees of its children. Child lists are owned;
// there are no back-pointers.
type Tree struct {
	Info     Node
	Children []*Tree
}

// Map indexes every subtree of a Tree by commit id. A Map is only ever
// produced by Build together with the tree it indexes.
type Map map[string]*Tree

// Head returns the subtree of the head commit, or nil.
func (m Map) Head() *Tree {
	for _, t := range m {
		if t.Info.IsHead {
			return t
		}
	}
	return nil
}

// ParentOf returns the tree parent of id: its first declared parent that is
// part of the snapshot, falling back to the synthetic root when one exists.
func (m Map) ParentOf(id string) (*Tree, bool) {
	t, ok := m[id]
	if !ok || id == UnknownRootID {
		return nil, false
	}
	for _, p := range t.Info.Parents {
		if parent, ok := m[p]; ok {
			return parent, true
		}
	}
	if root, ok := m[UnknownRootID]; ok {
		return root, true
	}
	return nil, false
}

// IsDescendant reports whether id is root or appears anywhere below it.
func IsDescendant(id string, root *Tree) bool {
	if root == nil {
		return false
	}
	if root.Info.ID == id {
		return true
	}
	for _, c := range root.Children {
		if IsDescendant(id, c) {
			return true
		}
	}
	return false
}

// Walk visits t and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(t *Tree, fn func(*Tree) bool) {
	if t == nil {
		return
	}
	if !fn(t) {
		return
	}
	for _, c := range t.Children {
		Walk(c, fn)
	}
}

// Size counts the nodes in t.
func (t *Tree) Size() int {
	n := 0
	Walk(t, func(*Tree) bool {
		n++
		return true
	})
	return n
}

// BuildError reports the repairs Build had to make. The tree and map
// returned alongside it are still valid.
type BuildError struct {
	Orphans    []string // declared parents all absent
	Duplicates []string // repeated ids, first occurrence kept
	Cycles     []string // parent chains that loop
	ExtraHeads []string // head flag cleared, first head kept
	Invalid    int      // records without an id
}

func (e *BuildError) Error() string {
	var parts []string
	add := func(label string, ids []string) {
		if len(ids) > 0 {
			parts = append(parts, fmt.Sprintf("%d %s (%s)", len(ids), label, strings.Join(ids, ", ")))
		}
	}
	add("orphaned", e.Orphans)
	add("duplicate", e.Duplicates)
	add("cyclic", e.Cycles)
	add("extra head", e.ExtraHeads)
	if e.Invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d without id", e.Invalid))
	}
	return "build commit tree: " + strings.Join(parts, "; ")
}

func (e *BuildError) empty() bool {
	return len(e.Orphans) == 0 && len(e.Duplicates) == 0 && len(e.Cycles) == 0 &&
		len(e.ExtraHeads) == 0 && e.Invalid == 0
}

// NearestBookmark returns the first bookmark found walking from id toward
// the root, breadth first over declared parents.
func (m Map) NearestBookmark(id string) (string, bool) {
	visited := make(map[string]bool)
	queue := []string{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if visited[cur] {
			continue
		}
		visited[cur] = true

		t := m[cur]
		if t == nil {
			continue
		}
		if len(t.Info.Bookmarks) > 0 {
			return t.Info.Bookmarks[0], true
		}
		queue = append(queue, t.Info.Parents...)
	}
	return "", false
}

// ErrNoMatch is returned by Resolve when nothing matches a reference.
var ErrNoMatch = errors.New("no commit matches")

// Resolve finds the commit a user typed: a commit id or change id, or a
// unique prefix of either.
func (m Map) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty revision: %w", ErrNoMatch)
	}
	if _, ok := m[ref]; ok {
		return ref, nil
	}

	var found []string
	for id, t := range m {
		if t.Info.IsUnknownRoot() {
			continue
		}
		if t.Info.ChangeID == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) || strings.HasPrefix(t.Info.ChangeID, ref) {
			found = append(found, id)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%q: %w", ref, ErrNoMatch)
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", fmt.Errorf("%q is ambiguous: matches %s", ref, strings.Join(found, ", "))
	}
}
