// Package runner owns the operation queue: the single previewed slot, the
// FIFO of confirmed operations and the completed operations still waiting
// for a refresh to prove they landed. Every change refolds the previews over
// the latest authoritative tree.
//
// A Runner is not safe for concurrent use. It is driven from one event loop;
// only Job.Run may be called elsewhere.
package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/jjgraph/logging"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/tree"
)

// DefaultMaxStaleRefreshes is how many refreshes a completed operation may
// survive without its effect showing up before it is retired anyway.
const DefaultMaxStaleRefreshes = 3

const defaultHistoryLimit = 50

// Option configures a Runner.
type Option func(*Runner)

// WithMaxStaleRefreshes overrides DefaultMaxStaleRefreshes.
func WithMaxStaleRefreshes(n int) Option {
	return func(r *Runner) { r.maxStale = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// Runner serializes operations and maintains the derived tree.
type Runner struct {
	exec     Executor
	maxStale int
	now      func() time.Time
	log      *log.Logger

	nextID  int
	active  []*Entry // queued, running and completed, in submission order
	preview *Entry
	history []*Entry

	root           *tree.Tree
	treeMap        tree.Map
	hasUncommitted bool
	outcome        preview.Outcome

	subscribers []func(Event)
}

// New creates a Runner that executes through exec.
func New(exec Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:     exec,
		maxStale: DefaultMaxStaleRefreshes,
		now:      time.Now,
		log:      logging.With("runner"),
		treeMap:  tree.Map{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn for lifecycle events. Events are delivered
// synchronously on the calling goroutine.
func (r *Runner) Subscribe(fn func(Event)) {
	r.subscribers = append(r.subscribers, fn)
}

func (r *Runner) emit(kind EventKind, e *Entry) {
	ev := Event{Kind: kind, EntryID: e.ID, Op: e.Op, Err: e.Err}
	r.log.Debug("operation "+string(kind), "id", e.ID, "op", e.Op.Describe())
	for _, fn := range r.subscribers {
		fn(ev)
	}
}

func (r *Runner) newEntry(op operation.Operation, state State) *Entry {
	r.nextID++
	return &Entry{ID: r.nextID, Op: op, State: state, SubmittedAt: r.now()}
}

// Refresh replaces the authoritative tree and refolds. A *tree.BuildError
// is returned when the records needed repairs; the repaired tree is used
// regardless.
func (r *Runner) Refresh(nodes []tree.Node, hasUncommittedChanges bool) error {
	root, m, err := tree.Build(nodes)
	if err != nil {
		r.log.Warn("authoritative tree needed repairs", "error", err)
	}

	r.root = root
	r.treeMap = m
	r.hasUncommitted = hasUncommittedChanges

	for _, e := range r.active {
		if e.State == Completed {
			e.staleRefreshes++
		}
	}

	for _, e := range r.activeSnapshot() {
		if e.State == Completed && e.staleRefreshes > r.maxStale {
			r.log.Warn("completed operation never showed up, retiring",
				"id", e.ID, "key", e.Op.Key(), "refreshes", e.staleRefreshes)
			r.retire(e)
		}
	}

	r.recompute()
	return err
}

// SetPreview installs op in the previewed slot, replacing and cancelling
// any earlier preview.
func (r *Runner) SetPreview(op operation.Operation) Entry {
	if r.preview != nil {
		r.cancel(r.preview)
	}
	r.preview = r.newEntry(op, Previewed)
	r.recompute()

	if r.preview == nil {
		// Refused by an integrity check during the fold.
		return *r.history[len(r.history)-1]
	}
	return *r.preview
}

// Preview returns the previewed entry, if any.
func (r *Runner) Preview() (Entry, bool) {
	if r.preview == nil {
		return Entry{}, false
	}
	return *r.preview, true
}

// CancelPreview drops the previewed operation. It reports whether there was
// one.
func (r *Runner) CancelPreview() bool {
	if r.preview == nil {
		return false
	}
	r.cancel(r.preview)
	r.preview = nil
	r.recompute()
	return true
}

// ConfirmPreview queues the previewed operation. The returned Job is non-nil
// when the operation can start right away.
func (r *Runner) ConfirmPreview() (*Job, error) {
	if r.preview == nil {
		return nil, ErrNoPreview
	}
	e := r.preview
	r.preview = nil
	return r.enqueue(e), nil
}

// Submit queues op directly, skipping the preview slot.
func (r *Runner) Submit(op operation.Operation) (Entry, *Job) {
	e := r.newEntry(op, Queued)
	job := r.enqueue(e)
	return *e, job
}

func (r *Runner) enqueue(e *Entry) *Job {
	e.State = Queued
	e.SubmittedAt = r.now()
	r.active = append(r.active, e)
	r.emit(EventQueued, e)

	r.recompute()
	return r.startNext()
}

// Cancel cancels a previewed or queued entry.
func (r *Runner) Cancel(id int) error {
	if r.preview != nil && r.preview.ID == id {
		r.CancelPreview()
		return nil
	}
	for _, e := range r.active {
		if e.ID != id {
			continue
		}
		if e.State != Queued {
			return fmt.Errorf("cancel %s: %w", e.Op.Describe(), ErrNotCancellable)
		}
		r.remove(e)
		r.cancel(e)
		r.recompute()
		return nil
	}
	return fmt.Errorf("cancel #%d: %w", id, ErrUnknownEntry)
}

func (r *Runner) cancel(e *Entry) {
	e.State = Cancelled
	e.FinishedAt = r.now()
	r.record(e)
	r.emit(EventCancelled, e)
}

// Finish records the outcome of a Job and returns the next Job to run, if
// any.
func (r *Runner) Finish(res Result) *Job {
	e := r.find(res.EntryID)
	if e == nil || e.State != Running {
		r.log.Warn("result for unknown or idle entry", "id", res.EntryID)
		return r.startNext()
	}

	e.FinishedAt = r.now()
	if res.Err != nil {
		e.State = Failed
		e.Err = res.Err
		r.remove(e)
		r.record(e)
		r.emit(EventFailed, e)
	} else {
		e.State = Completed
		r.emit(EventCompleted, e)
		if e.excluded {
			r.retire(e)
		}
	}

	r.recompute()
	return r.startNext()
}

// Drain runs job and every job that follows it on the calling goroutine.
func (r *Runner) Drain(ctx context.Context, job *Job) {
	for job != nil {
		job = r.Finish(job.Run(ctx))
	}
}

func (r *Runner) startNext() *Job {
	for _, e := range r.active {
		if e.State == Running {
			return nil
		}
	}
	for _, e := range r.active {
		if e.State != Queued {
			continue
		}
		e.State = Running
		e.StartedAt = r.now()
		r.emit(EventStarted, e)
		return &Job{EntryID: e.ID, Op: e.Op, exec: r.exec}
	}
	return nil
}

// recompute refolds every active entry and the preview over the
// authoritative tree. Entries that violate integrity are taken out and the
// fold repeats until it is clean.
func (r *Runner) recompute() {
	for {
		var owners []*Entry
		var items []preview.Item
		for _, e := range r.active {
			if e.excluded {
				continue
			}
			owners = append(owners, e)
			items = append(items, preview.Item{Op: e.Op})
		}
		if r.preview != nil {
			owners = append(owners, r.preview)
			items = append(items, preview.Item{Op: r.preview.Op, Previewed: true})
		}

		r.outcome = preview.Apply(r.root, preview.Context{
			TreeMap:               r.treeMap,
			HasUncommittedChanges: r.hasUncommitted,
		}, items)

		for _, i := range r.outcome.Retired {
			if e := owners[i]; e.State == Completed {
				r.retire(e)
			}
		}

		if len(r.outcome.Violations) == 0 {
			return
		}
		positions := make([]int, 0, len(r.outcome.Violations))
		for i := range r.outcome.Violations {
			positions = append(positions, i)
		}
		sort.Ints(positions)
		for _, i := range positions {
			r.reject(owners[i], r.outcome.Violations[i])
		}
	}
}

// reject handles an integrity violation found during the fold.
func (r *Runner) reject(e *Entry, err error) {
	switch e.State {
	case Previewed, Queued:
		e.State = Failed
		e.Err = err
		e.FinishedAt = r.now()
		if e == r.preview {
			r.preview = nil
		} else {
			r.remove(e)
		}
		r.record(e)
		r.emit(EventFailed, e)
	default:
		r.log.Warn("dropping in-flight operation from preview", "id", e.ID,
			"state", e.State, "error", err)
		e.excluded = true
		if e.State == Completed {
			r.retire(e)
		}
	}
}

func (r *Runner) retire(e *Entry) {
	e.Retired = true
	r.remove(e)
	r.record(e)
	r.log.Debug("operation retired", "id", e.ID, "op", e.Op.Describe())
}

func (r *Runner) remove(e *Entry) {
	for i, a := range r.active {
		if a == e {
			r.active = append(r.active[:i:i], r.active[i+1:]...)
			return
		}
	}
}

func (r *Runner) record(e *Entry) {
	r.history = append(r.history, e)
	if over := len(r.history) - defaultHistoryLimit; over > 0 {
		r.history = r.history[over:]
	}
}

func (r *Runner) find(id int) *Entry {
	for _, e := range r.active {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (r *Runner) activeSnapshot() []*Entry {
	return append([]*Entry(nil), r.active...)
}

// Derived returns the tree to render.
func (r *Runner) Derived() *preview.Tree {
	return r.outcome.Tree
}

// Lookup returns the derived node for id.
func (r *Runner) Lookup(id string) (*preview.Tree, bool) {
	t, ok := r.outcome.Index[id]
	return t, ok
}

// Tag returns the preview tag of id in the derived tree.
func (r *Runner) Tag(id string) preview.Tag {
	if t, ok := r.outcome.Index[id]; ok {
		return t.Tag
	}
	return preview.None
}

// TreeMap returns the authoritative index.
func (r *Runner) TreeMap() tree.Map {
	return r.treeMap
}

// HasUncommittedChanges reports the last refreshed working-copy state.
func (r *Runner) HasUncommittedChanges() bool {
	return r.hasUncommitted
}

// Busy reports whether an operation is queued or running.
func (r *Runner) Busy() bool {
	for _, e := range r.active {
		if e.State == Queued || e.State == Running {
			return true
		}
	}
	return false
}

// Entries returns copies of the active entries in submission order.
func (r *Runner) Entries() []Entry {
	out := make([]Entry, 0, len(r.active))
	for _, e := range r.active {
		out = append(out, *e)
	}
	return out
}

// History returns copies of finished entries, oldest first.
func (r *Runner) History() []Entry {
	out := make([]Entry, 0, len(r.history))
	for _, e := range r.history {
		out = append(out, *e)
	}
	return out
}
