package operation

import (
	"fmt"

	"github.com/gerunddev/jjgraph/preview"
)

// Goto starts a new working-copy commit on top of Dest.
type Goto struct {
	Dest string
}

// NewGoto builds a Goto to dest.
func NewGoto(dest string) (*Goto, error) {
	if dest == "" {
		return nil, constructionErr(KindGoto, "no destination")
	}
	return &Goto{Dest: dest}, nil
}

func (o *Goto) Kind() Kind { return KindGoto }

func (o *Goto) Args() []string {
	return []string{"new", o.Dest}
}

func (o *Goto) Key() string { return key(o.Kind(), o.Args()) }

func (o *Goto) Describe() string {
	return fmt.Sprintf("goto %s", Short(o.Dest))
}

// MakeOptimisticApplier retires once the authoritative head is the
// destination, or once the destination no longer exists.
func (o *Goto) MakeOptimisticApplier(ctx preview.Context) (preview.Applier, error) {
	if _, ok := ctx.TreeMap[o.Dest]; !ok {
		return nil, nil
	}
	if head := ctx.TreeMap.Head(); head != nil && head.Info.ID == o.Dest {
		return nil, nil
	}

	return func(t *preview.Tree, _ preview.Tag) preview.Result {
		switch {
		case t.Info.ID == o.Dest && t.Tag != preview.RebaseOld:
			info := t.Info
			info.IsHead = true
			return preview.Result{Info: info, Children: t.Children, Tag: preview.GotoDestination}
		case t.Info.IsHead && t.Info.ID != o.Dest:
			info := t.Info
			info.IsHead = false
			return preview.Result{Info: info, Children: t.Children, Tag: preview.GotoPreviousLocation}
		}
		return preview.Unchanged(t)
	}, nil
}
