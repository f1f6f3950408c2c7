package operation

import (
	"fmt"

	"github.com/gerunddev/jjgraph/preview"
)

// Hide abandons Target and all of its descendants.
type Hide struct {
	Target string
}

// NewHide builds a Hide of target.
func NewHide(target string) (*Hide, error) {
	if target == "" {
		return nil, constructionErr(KindHide, "no commit")
	}
	return &Hide{Target: target}, nil
}

func (o *Hide) Kind() Kind { return KindHide }

func (o *Hide) Args() []string {
	return []string{"abandon", o.Target + "::"}
}

func (o *Hide) Key() string { return key(o.Kind(), o.Args()) }

func (o *Hide) Describe() string {
	return fmt.Sprintf("hide %s", Short(o.Target))
}

// MakeOptimisticApplier retires once the target is gone from the
// authoritative map.
func (o *Hide) MakeOptimisticApplier(ctx preview.Context) (preview.Applier, error) {
	if _, ok := ctx.TreeMap[o.Target]; !ok {
		return nil, nil
	}

	return func(t *preview.Tree, _ preview.Tag) preview.Result {
		if t.Info.ID == o.Target && t.Tag != preview.RebaseOld {
			return preview.Result{
				Info:     t.Info,
				Children: t.Children,
				Tag:      preview.HiddenRoot,
				ChildTag: preview.HiddenDescendant,
			}
		}
		return preview.Unchanged(t)
	}, nil
}
