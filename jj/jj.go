// Package jj talks to Jujutsu repositories through the jj command line.
// It is the tree source, the presence check and the executor of the
// operation runner.
package jj

import "github.com/gerunddev/jjgraph/tree"

// DefaultRevset is the revset shown when none is configured: the working
// copy, every mutable commit with a little immutable context, and trunk.
const DefaultRevset = "@ | ancestors(immutable_heads().., 2) | trunk()"

// Snapshot is one authoritative reading of the repository.
type Snapshot struct {
	Nodes []tree.Node

	// WorkingCopy is the commit id of @. It is not part of Nodes.
	WorkingCopy string

	// HasUncommittedChanges is true when @ is not empty.
	HasUncommittedChanges bool
}
