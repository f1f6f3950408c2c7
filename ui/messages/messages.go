// Package messages holds the tea.Msg types passed between the app and its
// commands.
package messages

import (
	"time"

	"github.com/gerunddev/jjgraph/jj"
	"github.com/gerunddev/jjgraph/runner"
)

// SnapshotMsg carries a freshly read snapshot, or the error reading it.
type SnapshotMsg struct {
	Snapshot *jj.Snapshot
	Err      error
	At       time.Time
}

// JobDoneMsg carries the result of an operation that ran off the event
// loop.
type JobDoneMsg struct {
	Result runner.Result
}

// RepoChangedMsg is sent when the watcher saw the repository change.
type RepoChangedMsg struct{}

// TickMsg drives the periodic refresh.
type TickMsg struct {
	At time.Time
}
