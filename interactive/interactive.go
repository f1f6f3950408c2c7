// Package interactive runs quick actions as huh prompts, without the
// full-screen graph.
package interactive

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/gerunddev/jjgraph/session"
)

// Run starts the interactive mode
func Run(ctx context.Context, s *session.Session, w io.Writer) error {
	var action string

	err := huh.NewSelect[string]().
		Title("jjgraph - Quick Actions").
		Options(
			huh.NewOption("Goto - Start a new commit on a revision", "goto"),
			huh.NewOption("Rebase - Move a revision and its descendants", "rebase"),
			huh.NewOption("Hide - Abandon a revision and its descendants", "hide"),
			huh.NewOption("Uncommit - Move the head's changes into the working copy", "uncommit"),
			huh.NewOption("Amend - Edit a revision's message", "amend"),
		).
		Value(&action).
		Run()

	if err != nil {
		return cancelled(err)
	}

	switch action {
	case "goto":
		return runGoto(ctx, s, w)
	case "rebase":
		return runRebase(ctx, s, w)
	case "hide":
		return runHide(ctx, s, w)
	case "uncommit":
		return runUncommit(ctx, s, w)
	case "amend":
		return runAmend(ctx, s, w)
	}

	return nil
}

// cancelled treats the user leaving a prompt as success.
func cancelled(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
