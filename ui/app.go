// Package ui is the terminal front-end: a bubbletea program that renders
// the derived commit graph and turns keys into previewed jj operations.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/gerunddev/jjgraph/drag"
	"github.com/gerunddev/jjgraph/logging"
	"github.com/gerunddev/jjgraph/operation"
	"github.com/gerunddev/jjgraph/preview"
	"github.com/gerunddev/jjgraph/runner"
	"github.com/gerunddev/jjgraph/session"
	"github.com/gerunddev/jjgraph/ui/floating"
	"github.com/gerunddev/jjgraph/ui/messages"
	"github.com/gerunddev/jjgraph/ui/panels"
	"github.com/gerunddev/jjgraph/ui/theme"
	"github.com/gerunddev/jjgraph/watch"
)

// Options configures the app.
type Options struct {
	// Root is the workspace root. The watcher is only started when it is
	// set and Watch is true.
	Root  string
	Watch bool

	// RefreshInterval reloads the graph periodically. Zero disables it.
	RefreshInterval time.Duration
}

// PanelBound defines the screen coordinates of a panel for mouse detection
type PanelBound struct {
	X1, Y1, X2, Y2 int
	Focus          Focus
}

// App is the main application model
type App struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *session.Session
	runner  *runner.Runner
	opts    Options
	watcher *watch.Watcher
	log     *log.Logger

	// Panels
	graph      *panels.GraphPanel
	status     *panels.StatusPanel
	bookmarks  *panels.BookmarksPanel
	operations *panels.OperationsPanel

	// Floating windows
	confirm  *floating.ConfirmOverlay
	message  *floating.MessageOverlay
	amendID  string
	info     *floating.InfoOverlay
	help     *floating.HelpOverlay
	showHelp bool

	// Interaction
	drag  *drag.Session
	focus Focus
	keys  KeyMap

	// Refresh bookkeeping
	refreshing     bool
	refreshPending bool
	lastRefresh    time.Time
	refreshErr     error

	width       int
	height      int
	ready       bool
	panelBounds []PanelBound
}

// NewApp creates the app over a loaded session.
func NewApp(s *session.Session, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	keys := DefaultKeyMap()
	a := &App{
		ctx:        ctx,
		cancel:     cancel,
		session:    s,
		runner:     s.Runner,
		opts:       opts,
		log:        logging.With("ui"),
		graph:      panels.NewGraphPanel(),
		status:     panels.NewStatusPanel(),
		bookmarks:  panels.NewBookmarksPanel(),
		operations: panels.NewOperationsPanel(),
		help:       floating.NewHelpOverlay(keys),
		keys:       keys,
	}
	a.runner.Subscribe(a.onEvent)
	a.graph.SetFocused(true)
	a.sync()
	if head := a.runner.TreeMap().Head(); head != nil {
		a.graph.Select(head.Info.ID)
	}
	return a
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, s *session.Session, opts Options) error {
	app := NewApp(s, opts)
	defer app.Close()

	if opts.Watch && opts.Root != "" {
		w, err := watch.New(opts.Root, watch.DefaultDelay)
		if err != nil {
			app.log.Warn("file watching disabled", "error", err)
		} else {
			app.watcher = w
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close stops background work.
func (a *App) Close() {
	a.cancel()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing watcher", "error", err)
		}
	}
}

func (a *App) onEvent(ev runner.Event) {
	if ev.Kind == runner.EventFailed && ev.Err != nil {
		a.info = floating.NewInfoOverlay("Operation failed", ev.Op.Describe()+"\n\n"+ev.Err.Error())
		a.info.SetSize(a.width, a.height)
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refresh(), a.tick(), a.waitForChange())
}

// refresh starts loading a snapshot unless one is already in flight.
func (a *App) refresh() tea.Cmd {
	if a.refreshing {
		a.refreshPending = true
		return nil
	}
	a.refreshing = true
	ctx := a.ctx
	return func() tea.Msg {
		snap, err := a.session.Load(ctx)
		return messages.SnapshotMsg{Snapshot: snap, Err: err, At: time.Now()}
	}
}

func (a *App) tick() tea.Cmd {
	if a.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(a.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return messages.TickMsg{At: t}
	})
}

func (a *App) waitForChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	w := a.watcher
	return func() tea.Msg {
		select {
		case <-w.Changes():
			return messages.RepoChangedMsg{}
		case <-w.Done():
			return nil
		}
	}
}

// run executes job off the event loop.
func (a *App) run(job *runner.Job) tea.Cmd {
	if job == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		return messages.JobDoneMsg{Result: job.Run(ctx)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		a.ready = true
		return a, nil

	case messages.SnapshotMsg:
		a.refreshing = false
		if msg.Err != nil {
			a.log.Error("refresh failed", "error", msg.Err)
			a.refreshErr = msg.Err
		} else {
			a.refreshErr = nil
			a.lastRefresh = msg.At
			a.session.Apply(msg.Snapshot)
		}
		a.sync()
		if a.refreshPending {
			a.refreshPending = false
			return a, a.refresh()
		}
		return a, nil

	case messages.JobDoneMsg:
		next := a.runner.Finish(msg.Result)
		a.sync()
		return a, tea.Batch(a.run(next), a.refresh())

	case messages.RepoChangedMsg:
		return a, tea.Batch(a.refresh(), a.waitForChange())

	case messages.TickMsg:
		return a, tea.Batch(a.refresh(), a.tick())

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.info != nil:
		a.info = nil
		return a, nil

	case a.showHelp:
		if key.Matches(msg, a.keys.Escape, a.keys.Help, a.keys.Quit) {
			a.showHelp = false
			return a, nil
		}
		_, cmd := a.help.Update(msg)
		return a, cmd

	case a.message != nil:
		return a.handleMessageKey(msg)

	case a.confirm != nil:
		return a.handleConfirmKey(msg)

	case a.drag != nil:
		return a.handleDragKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil
	case key.Matches(msg, a.keys.Refresh):
		return a, a.refresh()
	case key.Matches(msg, a.keys.NextPanel):
		a.setFocus((a.focus + 1) % 3)
		return a, nil
	case key.Matches(msg, a.keys.PrevPanel):
		a.setFocus((a.focus + 2) % 3)
		return a, nil
	}

	switch a.focus {
	case FocusBookmarks:
		if key.Matches(msg, a.keys.Drop) {
			if bm, ok := a.bookmarks.Selected(); ok {
				return a, a.gotoCommit(bm.CommitID)
			}
			return a, nil
		}
		_, cmd := a.bookmarks.Update(msg)
		return a, cmd

	case FocusOperations:
		if key.Matches(msg, a.keys.Cancel) {
			if e, ok := a.operations.Selected(); ok {
				if err := a.runner.Cancel(e.ID); err != nil {
					a.showError("Cannot cancel", err)
				}
				a.sync()
			}
			return a, nil
		}
		_, cmd := a.operations.Update(msg)
		return a, cmd
	}

	return a.handleGraphKey(msg)
}

func (a *App) handleGraphKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.graph.Move(-1)
		return a, nil
	case key.Matches(msg, a.keys.Down):
		a.graph.Move(1)
		return a, nil
	case key.Matches(msg, a.keys.PageUp):
		a.graph.Move(-a.graph.ContentHeight() / 2)
		return a, nil
	case key.Matches(msg, a.keys.PageDown):
		a.graph.Move(a.graph.ContentHeight() / 2)
		return a, nil
	case key.Matches(msg, a.keys.Head):
		if head := a.runner.TreeMap().Head(); head != nil {
			a.graph.Select(head.Info.ID)
		}
		return a, nil
	case key.Matches(msg, a.keys.Uncommit):
		op, err := operation.NewUncommit(a.runner.TreeMap(), a.runner.HasUncommittedChanges())
		if err != nil {
			a.showError("Cannot uncommit", err)
			return a, nil
		}
		return a, a.submit(op)
	}

	selected, ok := a.graph.Selected()
	if !ok {
		return a, nil
	}
	id := selected.Info.ID
	actionable := !selected.Tag.BlocksActions() && !selected.Info.IsUnknownRoot()

	switch {
	case key.Matches(msg, a.keys.Grab):
		s, err := drag.Start(id, a.runner.TreeMap(), selected.Tag, a.runner.HasUncommittedChanges(), a.runner)
		if err != nil {
			a.showError("Cannot rebase", err)
			return a, nil
		}
		a.drag = s
		a.sync()

	case key.Matches(msg, a.keys.Goto) && actionable:
		return a, a.gotoCommit(id)

	case key.Matches(msg, a.keys.Hide) && actionable:
		op, err := operation.NewHide(id)
		if err != nil {
			a.showError("Cannot hide", err)
			return a, nil
		}
		a.propose(op, fmt.Sprintf("Hide %s and all of its descendants?", describeNode(selected)), false)

	case key.Matches(msg, a.keys.Amend) && actionable:
		a.amendID = id
		a.message = floating.NewMessageOverlay("Message of "+operation.Short(id), operation.Message{
			Title:       selected.Info.Title,
			Description: selected.Info.Description,
		})
		a.message.SetSize(a.width, a.height)
		return a, a.message.Init()
	}
	return a, nil
}

func (a *App) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Escape):
		a.drag.Abort()
		a.drag = nil
		a.sync()
		return a, nil

	case key.Matches(msg, a.keys.Drop):
		op, ok := a.drag.End()
		a.drag = nil
		if ok {
			a.askConfirmation(op.Describe() + "?")
		}
		a.sync()
		return a, nil

	case key.Matches(msg, a.keys.Up):
		a.graph.Move(-1)
	case key.Matches(msg, a.keys.Down):
		a.graph.Move(1)
	default:
		return a, nil
	}

	// The cursor entered a new commit.
	if _, err := a.drag.Enter(a.graph.SelectedID()); err != nil {
		a.log.Debug("not a drop target", "dest", a.graph.SelectedID(), "error", err)
	}
	a.sync()
	return a, nil
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if a.confirm.Confirmed() {
			return a, a.confirmPreview()
		}
		a.discardPreview()
	case "y", "Y":
		return a, a.confirmPreview()
	case "esc", "n", "N":
		a.discardPreview()
	default:
		a.confirm.Update(msg)
	}
	return a, nil
}

func (a *App) handleMessageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.message = nil
		return a, nil
	case "ctrl+s":
		edited := a.message.Message()
		a.message = nil
		op, err := operation.NewAmendMessage(a.amendID, edited)
		if err != nil {
			a.showError("Cannot edit message", err)
			return a, nil
		}
		return a, a.submit(op)
	}
	_, cmd := a.message.Update(msg)
	return a, cmd
}

func (a *App) gotoCommit(id string) tea.Cmd {
	op, err := operation.NewGoto(id)
	if err != nil {
		a.showError("Cannot goto", err)
		return nil
	}
	return a.submit(op)
}

func (a *App) submit(op operation.Operation) tea.Cmd {
	_, job := a.runner.Submit(op)
	a.sync()
	return a.run(job)
}

// propose previews op and asks before running it.
func (a *App) propose(op operation.Operation, question string, defaultYes bool) {
	entry := a.runner.SetPreview(op)
	a.sync()
	if entry.State == runner.Failed {
		// The failure event already opened the error dialog.
		return
	}
	a.confirm = floating.NewConfirmOverlay("Confirm", question, defaultYes)
	a.confirm.SetSize(a.width, a.height)
}

func (a *App) askConfirmation(question string) {
	a.confirm = floating.NewConfirmOverlay("Confirm", question, true)
	a.confirm.SetSize(a.width, a.height)
}

func (a *App) confirmPreview() tea.Cmd {
	a.confirm = nil
	job, err := a.runner.ConfirmPreview()
	if err != nil {
		a.showError("Nothing to run", err)
		return nil
	}
	a.sync()
	return a.run(job)
}

func (a *App) discardPreview() {
	a.confirm = nil
	a.runner.CancelPreview()
	a.sync()
}

func (a *App) showError(title string, err error) {
	a.info = floating.NewInfoOverlay(title, err.Error())
	a.info.SetSize(a.width, a.height)
}

// mode reports what keyboard input currently drives.
func (a *App) mode() Mode {
	switch {
	case a.drag != nil:
		return ModeDragging
	case a.confirm != nil:
		return ModePreview
	default:
		return ModeBrowse
	}
}

// sync pushes the runner's state into the panels.
func (a *App) sync() {
	a.graph.SetTree(a.runner.Derived())
	if a.drag != nil {
		a.graph.SetGrabbed(a.drag.Source())
	} else {
		a.graph.SetGrabbed("")
	}
	a.bookmarks.SetTree(a.runner.TreeMap())
	a.operations.SetEntries(a.runner)

	st := panels.Status{
		Dirty:         a.runner.HasUncommittedChanges(),
		Busy:          a.runner.Busy(),
		Watching:      a.watcher != nil,
		LastRefresh:   a.lastRefresh,
		RefreshFailed: a.refreshErr,
	}
	if head := a.runner.TreeMap().Head(); head != nil {
		st.HeadID = head.Info.ID
		st.HeadTitle = head.Info.Title
		st.Bookmark, _ = a.runner.TreeMap().NearestBookmark(head.Info.ID)
	}
	a.status.SetStatus(st)
}

func (a *App) setFocus(f Focus) {
	a.focus = f
	a.graph.SetFocused(f == FocusGraph)
	a.bookmarks.SetFocused(f == FocusBookmarks)
	a.operations.SetFocused(f == FocusOperations)
}

func (a *App) updateLayout() {
	sidebarWidth := theme.SidebarWidth
	if a.width < 100 {
		sidebarWidth = theme.SidebarMinWidth
	} else if a.width > 200 {
		sidebarWidth = theme.SidebarMaxWidth
	}
	graphWidth := a.width - sidebarWidth
	contentHeight := a.height - 1 // help bar

	statusHeight := a.status.Lines() + 2
	remaining := contentHeight - statusHeight
	bookmarksHeight := min(max(a.bookmarks.Count(), 1), max(remaining/3, 1)) + 2
	operationsHeight := max(remaining-bookmarksHeight, 3)

	a.graph.SetSize(graphWidth, contentHeight)
	a.status.SetSize(sidebarWidth, statusHeight)
	a.bookmarks.SetSize(sidebarWidth, bookmarksHeight)
	a.operations.SetSize(sidebarWidth, operationsHeight)
	a.help.SetSize(a.width, contentHeight)
	if a.confirm != nil {
		a.confirm.SetSize(a.width, a.height)
	}
	if a.message != nil {
		a.message.SetSize(a.width, a.height)
	}
	if a.info != nil {
		a.info.SetSize(a.width, a.height)
	}

	bookmarksY := statusHeight
	operationsY := bookmarksY + bookmarksHeight
	a.panelBounds = []PanelBound{
		{X1: 0, Y1: 0, X2: graphWidth - 1, Y2: contentHeight - 1, Focus: FocusGraph},
		{X1: graphWidth, Y1: bookmarksY, X2: a.width - 1, Y2: operationsY - 1, Focus: FocusBookmarks},
		{X1: graphWidth, Y1: operationsY, X2: a.width - 1, Y2: operationsY + operationsHeight - 1, Focus: FocusOperations},
	}
}

func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		a.status.View(),
		a.bookmarks.View(),
		a.operations.View(),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, a.graph.View(), sidebar)

	var selected *preview.Tree
	if t, ok := a.graph.Selected(); ok {
		selected = t
	}
	ctx := HelpBarContext{
		Mode:  a.mode(),
		Focus: a.focus,
		Dirty: a.runner.HasUncommittedChanges(),
	}
	if selected != nil {
		ctx.Blocked = selected.Tag.BlocksActions()
		ctx.HeadSelected = selected.Info.IsHead
	}
	view := lipgloss.JoinVertical(lipgloss.Left, main, RenderContextualHelpBar(ctx, a.width))

	switch {
	case a.info != nil:
		view = overlay(view, a.info.View())
	case a.showHelp:
		view = overlay(view, a.help.View())
	case a.message != nil:
		view = overlay(view, a.message.View())
	case a.confirm != nil:
		view = overlay(view, a.confirm.View())
	}
	return view
}

// overlay draws the non-blank lines of fg over background.
func overlay(background, fg string) string {
	bgLines := strings.Split(background, "\n")
	for i, line := range strings.Split(fg, "\n") {
		if i < len(bgLines) && strings.TrimSpace(line) != "" {
			bgLines[i] = line
		}
	}
	return strings.Join(bgLines, "\n")
}

// handleMouse focuses the clicked panel and forwards the event to it.
func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.info != nil || a.showHelp || a.message != nil || a.confirm != nil || a.drag != nil {
		return a, nil
	}

	for _, b := range a.panelBounds {
		if msg.X < b.X1 || msg.X > b.X2 || msg.Y < b.Y1 || msg.Y > b.Y2 {
			continue
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && b.Focus != a.focus {
			a.setFocus(b.Focus)
		}
		msg.X -= b.X1
		msg.Y -= b.Y1

		var cmd tea.Cmd
		switch b.Focus {
		case FocusGraph:
			_, cmd = a.graph.Update(msg)
		case FocusBookmarks:
			_, cmd = a.bookmarks.Update(msg)
		case FocusOperations:
			_, cmd = a.operations.Update(msg)
		}
		return a, cmd
	}
	return a, nil
}

func describeNode(t *preview.Tree) string {
	title := t.Info.Title
	if title == "" {
		title = "(no description)"
	}
	return fmt.Sprintf("%s %q", operation.Short(t.Info.ID), title)
}
