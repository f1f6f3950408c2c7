// Package session binds a jj workspace to an operation runner: it reads
// snapshots from the tree source, feeds them to the runner and runs
// operations to completion for the non-interactive front-ends.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/jjgraph/jj"
	"github.com/gerunddev/jjgraph/logging"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/tree"
)

// Source reads the authoritative commits. *jj.CLI implements it.
type Source interface {
	Snapshot(ctx context.Context, revset string) (*jj.Snapshot, error)
}

// Backend is a Source that can also execute operations.
type Backend interface {
	Source
	runner.Executor
}

var _ Backend = (*jj.CLI)(nil)

// Session is a runner kept in step with one workspace.
type Session struct {
	Runner *runner.Runner

	source Source
	revset string
	log    *log.Logger
}

// New creates a session without reading the workspace.
func New(backend Backend, revset string, opts ...runner.Option) *Session {
	return &Session{
		Runner: runner.New(backend, opts...),
		source: backend,
		revset: revset,
		log:    logging.With("session"),
	}
}

// Open creates a session and loads the first snapshot.
func Open(ctx context.Context, backend Backend, revset string, opts ...runner.Option) (*Session, error) {
	s := New(backend, revset, opts...)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a snapshot without touching the runner. It is safe to call
// off the event loop.
func (s *Session) Load(ctx context.Context) (*jj.Snapshot, error) {
	snap, err := s.source.Snapshot(ctx, s.revset)
	if err != nil {
		return nil, fmt.Errorf("load commits: %w", err)
	}
	return snap, nil
}

// Apply hands a snapshot to the runner. Repairs made while building the
// tree are logged, not returned.
func (s *Session) Apply(snap *jj.Snapshot) {
	err := s.Runner.Refresh(snap.Nodes, snap.HasUncommittedChanges)
	var buildErr *tree.BuildError
	if errors.As(err, &buildErr) {
		s.log.Warn("snapshot repaired", "error", buildErr)
	}
}

// Refresh loads and applies a snapshot.
func (s *Session) Refresh(ctx context.Context) error {
	snap, err := s.Load(ctx)
	if err != nil {
		return err
	}
	s.Apply(snap)
	return nil
}

// Run submits op, waits for it and refreshes. The error is the operation's
// failure, if any.
func (s *Session) Run(ctx context.Context, op operation.Operation) error {
	entry, job := s.Runner.Submit(op)
	return s.drain(ctx, entry.ID, job)
}

// RunPreview confirms the previewed operation and runs it like Run.
func (s *Session) RunPreview(ctx context.Context) error {
	entry, ok := s.Runner.Preview()
	if !ok {
		return runner.ErrNoPreview
	}
	job, err := s.Runner.ConfirmPreview()
	if err != nil {
		return err
	}
	return s.drain(ctx, entry.ID, job)
}

func (s *Session) drain(ctx context.Context, id int, job *runner.Job) error {
	s.Runner.Drain(ctx, job)

	if err := s.Refresh(ctx); err != nil {
		return err
	}
	for _, e := range s.Runner.History() {
		if e.ID == id && e.State == runner.Failed {
			return e.Err
		}
	}
	return nil
}
