// Package operation defines the mutating jj commands the graph can run and
// how each one predicts its own effect on the commit tree.
package operation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gerunddev/jjgraph/preview"
)

// Kind names an operation variant.
type Kind string

const (
	KindGoto         Kind = "goto"
	KindHide         Kind = "hide"
	KindRebase       Kind = "rebase"
	KindUncommit     Kind = "uncommit"
	KindAmendMessage Kind = "amend"
)

// Operation is one mutating command plus its optimistic preview. Operations
// are immutable once constructed.
type Operation interface {
	preview.Previewer

	// Kind returns the variant.
	Kind() Kind

	// Args returns the jj arguments, without the binary name.
	Args() []string

	// Describe returns a short human readable summary.
	Describe() string
}

// key derives an operation identity from its kind and arguments.
func key(kind Kind, args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}
	return string(kind) + "(" + strings.Join(quoted, " ") + ")"
}

// ConstructionError reports an operation that cannot legally be built. It
// is returned synchronously and the operation is never queued.
type ConstructionError struct {
	Kind   Kind
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Kind, e.Reason)
}

func constructionErr(kind Kind, format string, args ...any) error {
	return &ConstructionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// IntegrityError reports an operation whose prediction would corrupt the
// tree, such as a rebase onto its own descendant.
type IntegrityError struct {
	Op     string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation in %s: %s", e.Op, e.Reason)
}

// Short abbreviates a commit id for descriptions.
func Short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Compile-time interface checks.
var (
	_ Operation = (*Goto)(nil)
	_ Operation = (*Hide)(nil)
	_ Operation = (*Rebase)(nil)
	_ Operation = (*Uncommit)(nil)
	_ Operation = (*AmendMessage)(nil)
)
