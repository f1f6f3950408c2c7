package session

import (
	"context"
	"fmt"

	"github.com/gerunddev/jjgraph/drag"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/runner"
)

// Propose installs op as the preview. An operation that fails the integrity
// check is not installed and its error is returned.
func (s *Session) Propose(op operation.Operation) error {
	e := s.Runner.SetPreview(op)
	if e.State == runner.Failed {
		return e.Err
	}
	return nil
}

// ProposeRebase checks source and dest with the same rules as a drag and
// previews the rebase.
func (s *Session) ProposeRebase(source, dest string) (*operation.Rebase, error) {
	r := s.Runner
	d, err := drag.Start(source, r.TreeMap(), r.Tag(source), r.HasUncommittedChanges(), r)
	if err != nil {
		return nil, err
	}
	defer d.Abort()

	if err := d.Check(dest); err != nil {
		return nil, fmt.Errorf("rebase %s onto %s: %w", operation.Short(source), operation.Short(dest), err)
	}
	op, err := operation.NewRebase(source, dest)
	if err != nil {
		return nil, err
	}
	if err := s.Propose(op); err != nil {
		return nil, err
	}
	return op, nil
}

// Rebase moves source and its descendants onto dest.
func (s *Session) Rebase(ctx context.Context, source, dest string) error {
	if _, err := s.ProposeRebase(source, dest); err != nil {
		return err
	}
	return s.RunPreview(ctx)
}

// Goto starts a new working-copy commit on dest.
func (s *Session) Goto(ctx context.Context, dest string) error {
	op, err := operation.NewGoto(dest)
	if err != nil {
		return err
	}
	return s.Run(ctx, op)
}

// Hide abandons target and its descendants.
func (s *Session) Hide(ctx context.Context, target string) error {
	op, err := operation.NewHide(target)
	if err != nil {
		return err
	}
	if err := s.Propose(op); err != nil {
		return err
	}
	return s.RunPreview(ctx)
}

// Uncommit moves the head's own changes into the working copy.
func (s *Session) Uncommit(ctx context.Context) error {
	op, err := operation.NewUncommit(s.Runner.TreeMap(), s.Runner.HasUncommittedChanges())
	if err != nil {
		return err
	}
	return s.Run(ctx, op)
}

// Amend replaces the message of id.
func (s *Session) Amend(ctx context.Context, id string, msg operation.Message) error {
	op, err := operation.NewAmendMessage(id, msg)
	if err != nil {
		return err
	}
	return s.Run(ctx, op)
}
