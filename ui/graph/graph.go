// Package graph lays the derived commit tree out as jj-style graph rows,
// newest commits first.
package graph

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjgraph/preview"
)

// Symbols used for graph rendering.
const (
	SymbolHead       = "@"
	SymbolCommit     = "○"
	SymbolTrunk      = "◆"
	SymbolHidden     = "×"
	SymbolGhost      = "◌"
	SymbolUnknown    = "~"
	SymbolVertical   = "│"
	SymbolHorizontal = "─"
	SymbolJoinLeft   = "├"
	SymbolJoinEnd    = "╯"
	SymbolSpace      = " "
)

// Styles colors the graph. The zero value renders plain text.
type Styles struct {
	Head   lipgloss.Style
	Commit lipgloss.Style
	Trunk  lipgloss.Style
	Line   lipgloss.Style
}

// Row is one commit of the laid out graph.
type Row struct {
	Node   *preview.Tree
	Column int

	// Prefix is the graph drawn left of the commit, symbol included.
	Prefix string

	// Connector is the line drawn between this row and the next.
	Connector string
}

// ID returns the commit id of the row.
func (r Row) ID() string {
	return r.Node.Info.ID
}

// Symbol returns the node glyph for t.
func Symbol(t *preview.Tree) string {
	switch {
	case t.Info.IsUnknownRoot():
		return SymbolUnknown
	case t.Tag == preview.HiddenRoot || t.Tag == preview.HiddenDescendant:
		return SymbolHidden
	case t.Tag == preview.RebaseOld:
		return SymbolGhost
	case t.Info.IsHead:
		return SymbolHead
	case t.Info.PartOfTrunk:
		return SymbolTrunk
	default:
		return SymbolCommit
	}
}

// Layout orders the tree so every commit comes before its parent and draws
// the columns. The first child of a commit is drawn first and keeps its
// parent's column.
func Layout(root *preview.Tree, styles Styles) []Row {
	if root == nil {
		return nil
	}

	var order []*preview.Tree
	var parents = map[*preview.Tree]*preview.Tree{}
	var visit func(t *preview.Tree)
	visit = func(t *preview.Tree) {
		for _, c := range t.Children {
			parents[c] = t
			visit(c)
		}
		order = append(order, t)
	}
	visit(root)

	r := &renderer{styles: styles}
	rows := make([]Row, 0, len(order))
	for _, t := range order {
		rows = append(rows, r.row(t, parents[t]))
	}
	return rows
}

// renderer tracks which commit each column is waiting for.
type renderer struct {
	styles  Styles
	columns []*preview.Tree
}

func (r *renderer) row(t, parent *preview.Tree) Row {
	column := r.findColumn(t)

	var b strings.Builder
	for i := 0; i < column; i++ {
		r.cell(&b, i)
	}
	b.WriteString(r.symbol(t))
	b.WriteString(SymbolSpace)
	for i := column + 1; i < len(r.columns); i++ {
		r.cell(&b, i)
	}
	prefix := b.String()

	target := r.update(t, parent, column)

	b.Reset()
	if target < 0 || target >= column {
		for i := range r.columns {
			r.cell(&b, i)
		}
	} else {
		// The branch joins a column to its left.
		for i := 0; i < target; i++ {
			r.cell(&b, i)
		}
		b.WriteString(r.styles.Line.Render(SymbolJoinLeft))
		for i := target + 1; i < column; i++ {
			b.WriteString(r.styles.Line.Render(SymbolHorizontal + SymbolHorizontal))
		}
		b.WriteString(r.styles.Line.Render(SymbolHorizontal + SymbolJoinEnd))
		for i := column + 1; i < len(r.columns); i++ {
			b.WriteString(SymbolSpace)
			r.cell(&b, i)
		}
	}

	return Row{Node: t, Column: column, Prefix: prefix, Connector: strings.TrimRight(b.String(), SymbolSpace)}
}

func (r *renderer) cell(b *strings.Builder, i int) {
	if i < len(r.columns) && r.columns[i] != nil {
		b.WriteString(r.styles.Line.Render(SymbolVertical))
	} else {
		b.WriteString(SymbolSpace)
	}
	b.WriteString(SymbolSpace)
}

func (r *renderer) symbol(t *preview.Tree) string {
	s := Symbol(t)
	switch s {
	case SymbolHead:
		return r.styles.Head.Render(s)
	case SymbolTrunk:
		return r.styles.Trunk.Render(s)
	default:
		return r.styles.Commit.Render(s)
	}
}

// findColumn returns the leftmost column waiting for t, or a free one.
func (r *renderer) findColumn(t *preview.Tree) int {
	for i, c := range r.columns {
		if c == t {
			return i
		}
	}
	for i, c := range r.columns {
		if c == nil {
			return i
		}
	}
	return len(r.columns)
}

// update hands the column of t to its parent. When the parent is already
// awaited in another column the branch joins it; that column is returned,
// otherwise -1.
func (r *renderer) update(t, parent *preview.Tree, column int) int {
	for len(r.columns) <= column {
		r.columns = append(r.columns, nil)
	}
	for i, c := range r.columns {
		if c == t {
			r.columns[i] = nil
		}
	}

	target := -1
	if parent != nil {
		for i, c := range r.columns {
			if c == parent {
				target = i
				break
			}
		}
		if target < 0 {
			r.columns[column] = parent
		}
	}

	for len(r.columns) > 0 && r.columns[len(r.columns)-1] == nil {
		r.columns = r.columns[:len(r.columns)-1]
	}
	return target
}
