// Package preview folds in-flight and previewed operations over the
// authoritative commit tree, producing the derived tree that is rendered.
//
// The fold is a pure function of its inputs: the same tree, context and
// items always produce the same derived tree. Nothing is cached between
// calls.
package preview

import (
	"errors"
	"fmt"

	"github.com/gerunddev/jjgraph/logging"
	"github.com/gerunddev/jjgraph/tree"
)

// Tree is a node of the derived tree: a commit, its tag and its children.
type Tree struct {
	Info     tree.Node
	Children []*Tree
	Tag      Tag
}

// FromTree copies an authoritative tree into an untagged derived tree. The
// synthetic root is tagged NonActionableCommit.
func FromTree(t *tree.Tree) *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Info: t.Info}
	if t.Info.IsUnknownRoot() {
		out.Tag = NonActionableCommit
	}
	if len(t.Children) > 0 {
		out.Children = make([]*Tree, 0, len(t.Children))
		for _, c := range t.Children {
			out.Children = append(out.Children, FromTree(c))
		}
	}
	return out
}

// Walk visits t and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(fn func(*Tree) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Info: t.Info, Tag: t.Tag}
	if len(t.Children) > 0 {
		out.Children = make([]*Tree, 0, len(t.Children))
		for _, c := range t.Children {
			out.Children = append(out.Children, c.Clone())
		}
	}
	return out
}

// Contains reports whether id is t or appears below it.
func (t *Tree) Contains(id string) bool {
	found := false
	t.Walk(func(n *Tree) bool {
		if n.Info.ID == id {
			found = true
		}
		return !found
	})
	return found
}

// Index maps commit ids to nodes of a derived tree. When a commit appears
// more than once, as it does while a rebase shows both positions, the copy
// not tagged RebaseOld wins.
func Index(t *Tree) map[string]*Tree {
	idx := make(map[string]*Tree)
	t.Walk(func(n *Tree) bool {
		existing, ok := idx[n.Info.ID]
		if !ok || (existing.Tag == RebaseOld && n.Tag != RebaseOld) {
			idx[n.Info.ID] = n
		}
		return true
	})
	return idx
}

// Context carries what appliers may consult. Apply fills Derived and
// Previewed for each step.
type Context struct {
	TreeMap               tree.Map
	HasUncommittedChanges bool

	// Derived indexes the input of the current step.
	Derived map[string]*Tree

	// Previewed is true when the operation has not been confirmed yet.
	Previewed bool
}

// Result is an applier's answer for one node. Tag and ChildTag left at None
// keep the tag the node already has or inherits.
type Result struct {
	Info     tree.Node
	Children []*Tree
	Tag      Tag
	ChildTag Tag
}

// Applier transforms one node of the derived tree. It must not modify t.
// inherited is the ChildTag pushed down by the nearest ancestor in this
// step.
type Applier func(t *Tree, inherited Tag) Result

// Unchanged is the Result that leaves t as it is.
func Unchanged(t *Tree) Result {
	return Result{Info: t.Info, Children: t.Children}
}

// Previewer is something whose effect can be predicted. A nil Applier with
// a nil error means the effect is already visible in ctx.TreeMap.
type Previewer interface {
	Key() string
	MakeOptimisticApplier(ctx Context) (Applier, error)
}

// Item is one step of the fold.
type Item struct {
	Op        Previewer
	Previewed bool
}

// Outcome is the result of a fold.
type Outcome struct {
	Tree  *Tree
	Index map[string]*Tree

	// Retired lists the positions of items whose applier was nil.
	Retired []int

	// Violations maps item positions to the error that kept them out of
	// the fold.
	Violations map[int]error
}

// IsRetired reports whether item i was retired.
func (o Outcome) IsRetired(i int) bool {
	for _, r := range o.Retired {
		if r == i {
			return true
		}
	}
	return false
}

// PreviewError reports an applier that panicked. The node it was working on
// is left unchanged.
type PreviewError struct {
	Op     string
	NodeID string
	Value  any
}

func (e *PreviewError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("preview %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("preview %s at %s: %v", e.Op, e.NodeID, e.Value)
}

// Apply folds items over root, left to right. Each step sees the output of
// the previous one.
func Apply(root *tree.Tree, ctx Context, items []Item) Outcome {
	done := logging.OpWithResult("preview.Apply", "items", len(items))

	derived := FromTree(root)
	out := Outcome{Violations: make(map[int]error)}

	for i, item := range items {
		stepCtx := ctx
		stepCtx.Derived = Index(derived)
		stepCtx.Previewed = item.Previewed

		applier, err := makeApplier(item.Op, stepCtx)
		if err != nil {
			var perr *PreviewError
			if errors.As(err, &perr) {
				logPreviewError(perr)
				continue
			}
			out.Violations[i] = err
			continue
		}
		if applier == nil {
			out.Retired = append(out.Retired, i)
			continue
		}

		derived = applyNode(derived, None, applier, item.Op.Key())
	}

	out.Tree = derived
	out.Index = Index(derived)
	done(nil, "retired", len(out.Retired), "violations", len(out.Violations))
	return out
}

func makeApplier(op Previewer, ctx Context) (applier Applier, err error) {
	defer func() {
		if r := recover(); r != nil {
			applier = nil
			err = &PreviewError{Op: op.Key(), Value: r}
		}
	}()
	return op.MakeOptimisticApplier(ctx)
}

func applyNode(t *Tree, inherited Tag, fn Applier, op string) *Tree {
	if t == nil {
		return nil
	}

	res := safeApply(t, inherited, fn, op)

	tag := t.Tag
	if inherited != None {
		tag = inherited
	}
	if res.Tag != None {
		tag = res.Tag
	}

	childTag := inherited
	if res.ChildTag != None {
		childTag = res.ChildTag
	}

	out := &Tree{Info: res.Info, Tag: tag}
	if len(res.Children) > 0 {
		out.Children = make([]*Tree, 0, len(res.Children))
		for _, c := range res.Children {
			out.Children = append(out.Children, applyNode(c, childTag, fn, op))
		}
	}
	return out
}

func safeApply(t *Tree, inherited Tag, fn Applier, op string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logPreviewError(&PreviewError{Op: op, NodeID: t.Info.ID, Value: r})
			res = Unchanged(t)
		}
	}()
	return fn(t, inherited)
}

func logPreviewError(err *PreviewError) {
	logging.With("preview").Warn("applier failed, showing node unchanged",
		"op", err.Op, "node", err.NodeID, "error", fmt.Sprint(err.Value))
}
