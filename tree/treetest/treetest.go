// Package treetest builds commit fixtures for tests.
package treetest

import (
	"testing"
	"time"

	"github.com/gerunddev/jjgraph/tree"
)

// Epoch is the author date of the first fixture commit. Later fixtures are
// one minute apart.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Option tweaks a fixture node.
type Option func(*tree.Node)

// Head marks the node as the head commit.
func Head() Option {
	return func(n *tree.Node) { n.IsHead = true }
}

// Public marks the node as part of trunk.
func Public() Option {
	return func(n *tree.Node) { n.PartOfTrunk = true }
}

// Bookmarks attaches bookmark names.
func Bookmarks(names ...string) Option {
	return func(n *tree.Node) { n.Bookmarks = names }
}

// Node returns a commit with the given id and parents. The title is the id.
func Node(id string, parents []string, opts ...Option) tree.Node {
	n := tree.Node{
		ID:       id,
		ChangeID: "change-" + id,
		Title:    id,
		Parents:  parents,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// Chain returns commits where each id is the child of the previous one.
// The first commit is public and the last one is the head.
func Chain(ids ...string) []tree.Node {
	nodes := make([]tree.Node, 0, len(ids))
	for i, id := range ids {
		var parents []string
		if i > 0 {
			parents = []string{ids[i-1]}
		}
		n := Node(id, parents)
		n.Date = Epoch.Add(time.Duration(i) * time.Minute)
		if i == 0 {
			n.PartOfTrunk = true
		}
		if i == len(ids)-1 {
			n.IsHead = true
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// MustBuild builds nodes and fails the test if any repair was needed.
func MustBuild(t testing.TB, nodes ...tree.Node) (*tree.Tree, tree.Map) {
	t.Helper()

	root, m, err := tree.Build(nodes)
	if err != nil {
		t.Fatalf("build fixture tree: %v", err)
	}
	return root, m
}
