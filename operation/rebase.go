package operation

import (
	"fmt"

	"github.com/gerunddev/jjgraph/preview"
)

// Rebase moves Source and its descendants onto Dest.
type Rebase struct {
	Source string
	Dest   string
}

// NewRebase builds a Rebase of source onto dest.
func NewRebase(source, dest string) (*Rebase, error) {
	switch {
	case source == "":
		return nil, constructionErr(KindRebase, "no source commit")
	case dest == "":
		return nil, constructionErr(KindRebase, "no destination")
	case source == dest:
		return nil, constructionErr(KindRebase, "%s onto itself", Short(source))
	}
	return &Rebase{Source: source, Dest: dest}, nil
}

func (o *Rebase) Kind() Kind { return KindRebase }

func (o *Rebase) Args() []string {
	return []string{"rebase", "-s", o.Source, "-d", o.Dest}
}

func (o *Rebase) Key() string { return key(o.Kind(), o.Args()) }

func (o *Rebase) Describe() string {
	return fmt.Sprintf("rebase %s onto %s", Short(o.Source), Short(o.Dest))
}

// MakeOptimisticApplier retires once the authoritative parent of the source
// is the destination, or once the source is gone.
//
// The source keeps its original position tagged RebaseOld and a copy is
// grafted under the destination. The copy is tagged RebaseRoot while merely
// previewed and RebaseOptimisticRoot once confirmed.
func (o *Rebase) MakeOptimisticApplier(ctx preview.Context) (preview.Applier, error) {
	if _, ok := ctx.TreeMap[o.Source]; !ok {
		return nil, nil
	}
	if parent, ok := ctx.TreeMap.ParentOf(o.Source); ok && parent.Info.ID == o.Dest {
		return nil, nil
	}

	source, ok := ctx.Derived[o.Source]
	if !ok {
		return nil, nil
	}
	if _, ok := ctx.Derived[o.Dest]; !ok {
		return nil, nil
	}
	if source.Contains(o.Dest) {
		return nil, &IntegrityError{
			Op:     o.Describe(),
			Reason: fmt.Sprintf("destination %s is a descendant of %s", Short(o.Dest), Short(o.Source)),
		}
	}

	rootTag, descTag := preview.RebaseOptimisticRoot, preview.RebaseOptimisticDescendant
	if ctx.Previewed {
		rootTag, descTag = preview.RebaseRoot, preview.RebaseDescendant
	}

	moved := source.Clone()
	moved.Info.Parents = []string{o.Dest}

	return func(t *preview.Tree, inherited preview.Tag) preview.Result {
		switch {
		case t == moved:
			return preview.Result{Info: t.Info, Children: t.Children, Tag: rootTag, ChildTag: descTag}
		case t.Info.ID == o.Source && t.Tag != preview.RebaseOld:
			info := t.Info
			info.IsHead = false
			return preview.Result{Info: info, Children: t.Children, Tag: preview.RebaseOld, ChildTag: preview.RebaseOld}
		case t.Info.ID == o.Dest && t.Tag != preview.RebaseOld:
			children := make([]*preview.Tree, 0, len(t.Children)+1)
			children = append(children, moved)
			children = append(children, t.Children...)
			return preview.Result{Info: t.Info, Children: children}
		case inherited == preview.RebaseOld && t.Info.IsHead:
			info := t.Info
			info.IsHead = false
			return preview.Result{Info: info, Children: t.Children}
		}
		return preview.Unchanged(t)
	}, nil
}
