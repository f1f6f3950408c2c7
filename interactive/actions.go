package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/gerunddev/jjgraph/drag"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/session"
	"github.com/gerunddev/jjgraph/tree"
	"github.com/gerunddev/jjgraph/ui/graph"
)

func runGoto(ctx context.Context, s *session.Session, w io.Writer) error {
	options := buildRevisionOptions(revisions(s))
	if len(options) == 0 {
		fmt.Fprintln(w, "No revisions available")
		return nil
	}

	var dest string
	err := huh.NewSelect[string]().
		Title("Select revision to start a new commit on").
		Options(options...).
		Value(&dest).
		Run()

	if err != nil {
		return cancelled(err)
	}

	if err := s.Goto(ctx, dest); err != nil {
		return fmt.Errorf("goto failed: %w", err)
	}

	fmt.Fprintf(w, "Working copy is now on %s\n", operation.Short(dest))
	return nil
}

func runRebase(ctx context.Context, s *session.Session, w io.Writer) error {
	sources := buildRevisionOptions(rebaseSources(s))
	if len(sources) == 0 {
		fmt.Fprintln(w, "No revisions can be rebased")
		return nil
	}

	// Select source revision
	var source string
	err := huh.NewSelect[string]().
		Title("Select revision to rebase (source)").
		Options(sources...).
		Value(&source).
		Run()

	if err != nil {
		return cancelled(err)
	}

	dests, err := rebaseDestinations(s, source)
	if err != nil {
		return err
	}
	if len(dests) == 0 {
		fmt.Fprintf(w, "No valid destinations for %s\n", operation.Short(source))
		return nil
	}

	// Select destination revision
	var dest string
	err = huh.NewSelect[string]().
		Title("Select destination (new parent)").
		Description(fmt.Sprintf("Rebasing %s and its descendants onto...", operation.Short(source))).
		Options(buildRevisionOptions(dests)...).
		Value(&dest).
		Run()

	if err != nil {
		return cancelled(err)
	}

	if err := s.Rebase(ctx, source, dest); err != nil {
		return fmt.Errorf("rebase failed: %w", err)
	}

	fmt.Fprintf(w, "Rebased %s onto %s\n", operation.Short(source), operation.Short(dest))
	return nil
}

func runHide(ctx context.Context, s *session.Session, w io.Writer) error {
	var candidates []tree.Node
	for _, n := range revisions(s) {
		if !n.PartOfTrunk {
			candidates = append(candidates, n)
		}
	}
	options := buildRevisionOptions(candidates)
	if len(options) == 0 {
		fmt.Fprintln(w, "No revisions can be hidden")
		return nil
	}

	var target string
	err := huh.NewSelect[string]().
		Title("Select revision to hide").
		Options(options...).
		Value(&target).
		Run()

	if err != nil {
		return cancelled(err)
	}

	count := 1
	if t, ok := s.Runner.TreeMap()[target]; ok {
		count = t.Size()
	}

	confirmed := false
	err = huh.NewConfirm().
		Title(fmt.Sprintf("Hide %s?", operation.Short(target))).
		Description(fmt.Sprintf("%d commit(s) will be abandoned.", count)).
		Value(&confirmed).
		Run()

	if err != nil {
		return cancelled(err)
	}
	if !confirmed {
		return nil
	}

	if err := s.Hide(ctx, target); err != nil {
		return fmt.Errorf("hide failed: %w", err)
	}

	fmt.Fprintf(w, "Hid %s\n", operation.Short(target))
	return nil
}

func runUncommit(ctx context.Context, s *session.Session, w io.Writer) error {
	op, err := operation.NewUncommit(s.Runner.TreeMap(), s.Runner.HasUncommittedChanges())
	if err != nil {
		fmt.Fprintf(w, "Cannot uncommit: %v\n", err)
		return nil
	}

	confirmed := true
	err = huh.NewConfirm().
		Title(fmt.Sprintf("Uncommit %s?", operation.Short(op.Head))).
		Description("Its changes move into the working copy.").
		Value(&confirmed).
		Run()

	if err != nil {
		return cancelled(err)
	}
	if !confirmed {
		return nil
	}

	if err := s.Uncommit(ctx); err != nil {
		return fmt.Errorf("uncommit failed: %w", err)
	}

	fmt.Fprintf(w, "Uncommitted %s\n", operation.Short(op.Head))
	return nil
}

func runAmend(ctx context.Context, s *session.Session, w io.Writer) error {
	var candidates []tree.Node
	for _, n := range revisions(s) {
		if !n.PartOfTrunk {
			candidates = append(candidates, n)
		}
	}
	options := buildRevisionOptions(candidates)
	if len(options) == 0 {
		fmt.Fprintln(w, "No revisions can be edited")
		return nil
	}

	var id string
	err := huh.NewSelect[string]().
		Title("Select revision to edit").
		Options(options...).
		Value(&id).
		Run()

	if err != nil {
		return cancelled(err)
	}

	current := operation.Message{}
	if t, ok := s.Runner.TreeMap()[id]; ok {
		current = operation.Message{Title: t.Info.Title, Description: t.Info.Description}
	}

	text := current.String()
	err = huh.NewText().
		Title(fmt.Sprintf("Message of %s", operation.Short(id))).
		Description("First line is the title").
		Value(&text).
		Validate(func(v string) error {
			if operation.ParseMessage(v).Title == "" {
				return fmt.Errorf("title cannot be empty")
			}
			return nil
		}).
		Run()

	if err != nil {
		return cancelled(err)
	}

	if err := s.Amend(ctx, id, operation.ParseMessage(text)); err != nil {
		return fmt.Errorf("amend failed: %w", err)
	}

	fmt.Fprintf(w, "Updated message of %s\n", operation.Short(id))
	return nil
}

// revisions lists the commits of the derived graph in display order.
func revisions(s *session.Session) []tree.Node {
	var nodes []tree.Node
	for _, row := range graph.Layout(s.Runner.Derived(), graph.Styles{}) {
		n := row.Node
		if n.Info.IsUnknownRoot() || n.Tag == preview.RebaseOld {
			continue
		}
		nodes = append(nodes, n.Info)
	}
	return nodes
}

// rebaseSources lists the commits a drag could pick up.
func rebaseSources(s *session.Session) []tree.Node {
	var nodes []tree.Node
	for _, n := range revisions(s) {
		if !n.PartOfTrunk && s.Runner.Tag(n.ID).Draggable() {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// rebaseDestinations lists the commits source could be dropped on.
func rebaseDestinations(s *session.Session, source string) ([]tree.Node, error) {
	r := s.Runner
	d, err := drag.Start(source, r.TreeMap(), r.Tag(source), r.HasUncommittedChanges(), r)
	if err != nil {
		return nil, err
	}
	defer d.Abort()

	var nodes []tree.Node
	for _, n := range revisions(s) {
		if d.Check(n.ID) == nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func buildRevisionOptions(nodes []tree.Node) []huh.Option[string] {
	var options []huh.Option[string]
	for _, n := range nodes {
		label := operation.Short(n.ChangeID)
		if n.IsHead {
			label += " @"
		}
		if len(n.Bookmarks) > 0 {
			label += " [" + strings.Join(n.Bookmarks, ", ") + "]"
		}
		if n.Title != "" {
			label += " " + n.Title
		} else {
			label += " (no description)"
		}
		options = append(options, huh.NewOption(label, n.ID))
	}
	return options
}
