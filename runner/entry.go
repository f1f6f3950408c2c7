package runner

import (
	"context"
	"errors"
	"time"

	"github.com/gerunddev/jjgraph/operation"
)

// State is the lifecycle position of a queue entry.
type State int

const (
	Previewed State = iota
	Queued
	Running
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Previewed:
		return "previewed"
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == Failed || s == Cancelled
}

// Entry tracks one operation through the queue.
type Entry struct {
	ID          int
	Op          operation.Operation
	State       State
	Err         error
	SubmittedAt time.Time
	StartedAt   time.Time
	FinishedAt  time.Time

	// Retired is set once a completed entry's effect is visible in the
	// authoritative tree.
	Retired bool

	staleRefreshes int
	excluded       bool
}

// EventKind names a lifecycle transition.
type EventKind string

const (
	EventQueued    EventKind = "queued"
	EventStarted   EventKind = "started"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
	EventCancelled EventKind = "cancelled"
)

// Event is delivered to subscribers on every transition.
type Event struct {
	Kind    EventKind
	EntryID int
	Op      operation.Operation
	Err     error
}

// Executor runs the arguments of an operation.
type Executor interface {
	Execute(ctx context.Context, args []string) error
}

var (
	// ErrNotCancellable is returned when cancelling a running or finished
	// entry.
	ErrNotCancellable = errors.New("operation is already running and cannot be cancelled")

	// ErrUnknownEntry is returned for ids the runner does not track.
	ErrUnknownEntry = errors.New("unknown queue entry")

	// ErrNoPreview is returned when confirming with an empty preview slot.
	ErrNoPreview = errors.New("no operation is being previewed")
)

// Job is the one piece of work that runs off the event loop.
type Job struct {
	EntryID int
	Op      operation.Operation
	exec    Executor
}

// Result is what a Job hands back to Runner.Finish.
type Result struct {
	EntryID int
	Err     error
}

// Run executes the operation. It is safe to call from any goroutine.
func (j *Job) Run(ctx context.Context) Result {
	return Result{EntryID: j.EntryID, Err: j.exec.Execute(ctx, j.Op.Args())}
}
