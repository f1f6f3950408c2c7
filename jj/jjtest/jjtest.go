// Package jjtest is an in-memory stand-in for the jj CLI. It understands the
// commands the graph issues well enough for front-end tests.
package jjtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gerunddev/jjgraph/jj"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/tree"
)

// Repo holds commits and applies jj commands to them.
type Repo struct {
	mu    sync.Mutex
	nodes []tree.Node
	dirty bool
	calls [][]string
	fails map[string]error

	// SnapshotErr, when set, is returned by Snapshot.
	SnapshotErr error
}

// New returns a repo holding nodes.
func New(nodes ...tree.Node) *Repo {
	return &Repo{nodes: append([]tree.Node(nil), nodes...), fails: map[string]error{}}
}

// SetDirty sets the uncommitted-changes flag.
func (r *Repo) SetDirty(dirty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = dirty
}

// FailOn makes the command whose joined arguments equal args fail with err.
func (r *Repo) FailOn(args string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[args] = err
}

// Calls returns the executed commands.
func (r *Repo) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

// Snapshot returns a copy of the commits. The revset is ignored.
func (r *Repo) Snapshot(_ context.Context, _ string) (*jj.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SnapshotErr != nil {
		return nil, r.SnapshotErr
	}
	nodes := make([]tree.Node, len(r.nodes))
	for i, n := range r.nodes {
		n.Parents = append([]string(nil), n.Parents...)
		nodes[i] = n
	}
	return &jj.Snapshot{Nodes: nodes, WorkingCopy: "@", HasUncommittedChanges: r.dirty}, nil
}

// Execute applies args.
func (r *Repo) Execute(_ context.Context, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, args)
	if err := r.fails[strings.Join(args, " ")]; err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("jj: no command")
	}

	switch {
	case args[0] == "new" && len(args) == 2:
		return r.moveHead(args[1])
	case args[0] == "abandon" && len(args) == 2:
		return r.abandon(strings.TrimSuffix(args[1], "::"))
	case args[0] == "rebase" && len(args) == 5 && args[1] == "-s" && args[3] == "-d":
		return r.rebase(args[2], args[4])
	case args[0] == "squash" && len(args) == 5 && args[1] == "--from":
		return r.squash(args[2])
	case args[0] == "describe" && len(args) == 4 && args[2] == "-m":
		return r.describe(args[1], args[3])
	}
	return fmt.Errorf("jj %s: unsupported by jjtest", strings.Join(args, " "))
}

func (r *Repo) index(id string) (int, error) {
	for i, n := range r.nodes {
		if n.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("revision %q doesn't exist", id)
}

func (r *Repo) moveHead(dest string) error {
	i, err := r.index(dest)
	if err != nil {
		return err
	}
	for j := range r.nodes {
		r.nodes[j].IsHead = false
	}
	r.nodes[i].IsHead = true
	return nil
}

func (r *Repo) descendants(id string) map[string]bool {
	set := map[string]bool{id: true}
	for grew := true; grew; {
		grew = false
		for _, n := range r.nodes {
			if set[n.ID] {
				continue
			}
			for _, p := range n.Parents {
				if set[p] {
					set[n.ID] = true
					grew = true
					break
				}
			}
		}
	}
	return set
}

func (r *Repo) abandon(target string) error {
	i, err := r.index(target)
	if err != nil {
		return err
	}
	parents := r.nodes[i].Parents
	if r.nodes[i].PartOfTrunk {
		return fmt.Errorf("commit %s is immutable", target)
	}

	gone := r.descendants(target)
	headGone := false
	kept := r.nodes[:0]
	for _, n := range r.nodes {
		if gone[n.ID] {
			headGone = headGone || n.IsHead
			continue
		}
		kept = append(kept, n)
	}
	r.nodes = kept

	if headGone && len(parents) > 0 {
		if j, err := r.index(parents[0]); err == nil {
			r.nodes[j].IsHead = true
		}
	}
	return nil
}

func (r *Repo) rebase(source, dest string) error {
	i, err := r.index(source)
	if err != nil {
		return err
	}
	if _, err := r.index(dest); err != nil {
		return err
	}
	if r.descendants(source)[dest] {
		return fmt.Errorf("cannot rebase %s onto descendant %s", source, dest)
	}
	r.nodes[i].Parents = []string{dest}
	return nil
}

func (r *Repo) squash(from string) error {
	i, err := r.index(from)
	if err != nil {
		return err
	}
	gone := r.nodes[i]
	r.nodes = append(r.nodes[:i], r.nodes[i+1:]...)

	for j := range r.nodes {
		n := &r.nodes[j]
		for k, p := range n.Parents {
			if p == from {
				n.Parents = append(append(append([]string(nil), n.Parents[:k]...), gone.Parents...), n.Parents[k+1:]...)
				break
			}
		}
	}
	if gone.IsHead && len(gone.Parents) > 0 {
		if j, err := r.index(gone.Parents[0]); err == nil {
			r.nodes[j].IsHead = true
		}
	}
	r.dirty = true
	return nil
}

func (r *Repo) describe(id, message string) error {
	i, err := r.index(id)
	if err != nil {
		return err
	}
	msg := operation.ParseMessage(message)
	r.nodes[i].Title = msg.Title
	r.nodes[i].Description = msg.Description
	return nil
}
