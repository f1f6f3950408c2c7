package operation

import (
	"fmt"

	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/tree"
)

// Uncommit moves the changes of the head commit back into the working copy
// and drops the head, making its parent the new head.
type Uncommit struct {
	Head   string
	Parent string
}

// NewUncommit builds an Uncommit of the current head in m. It refuses heads
// with descendants, public heads, the root commit, and working copies that
// already hold uncommitted changes.
func NewUncommit(m tree.Map, hasUncommittedChanges bool) (*Uncommit, error) {
	head := m.Head()
	if head == nil {
		return nil, constructionErr(KindUncommit, "no head commit")
	}
	if n := len(head.Children); n > 0 {
		return nil, constructionErr(KindUncommit, "%s has %d descendant(s)", Short(head.Info.ID), n)
	}
	if head.Info.PartOfTrunk {
		return nil, constructionErr(KindUncommit, "%s is public", Short(head.Info.ID))
	}
	parent, ok := m.ParentOf(head.Info.ID)
	if !ok || parent.Info.IsUnknownRoot() {
		return nil, constructionErr(KindUncommit, "%s has no parent", Short(head.Info.ID))
	}
	if hasUncommittedChanges {
		return nil, constructionErr(KindUncommit, "working copy has uncommitted changes")
	}
	return &Uncommit{Head: head.Info.ID, Parent: parent.Info.ID}, nil
}

func (o *Uncommit) Kind() Kind { return KindUncommit }

func (o *Uncommit) Args() []string {
	return []string{"squash", "--from", o.Head, "--into", "@"}
}

func (o *Uncommit) Key() string { return key(o.Kind(), o.Args()) }

func (o *Uncommit) Describe() string {
	return fmt.Sprintf("uncommit %s", Short(o.Head))
}

// MakeOptimisticApplier retires once the old head is gone.
func (o *Uncommit) MakeOptimisticApplier(ctx preview.Context) (preview.Applier, error) {
	if _, ok := ctx.TreeMap[o.Head]; !ok {
		return nil, nil
	}

	return func(t *preview.Tree, _ preview.Tag) preview.Result {
		if t.Tag == preview.RebaseOld {
			return preview.Unchanged(t)
		}
		idx := -1
		for i, c := range t.Children {
			if c.Info.ID == o.Head && c.Tag != preview.RebaseOld {
				idx = i
				break
			}
		}
		if idx < 0 {
			return preview.Unchanged(t)
		}

		children := make([]*preview.Tree, 0, len(t.Children)-1)
		children = append(children, t.Children[:idx]...)
		children = append(children, t.Children[idx+1:]...)
		// The head has no children of its own, but anything stacked on it
		// by earlier previews moves down with it.
		children = append(children, t.Children[idx].Children...)

		info := t.Info
		info.IsHead = true
		return preview.Result{Info: info, Children: children}
	}, nil
}
