package jj

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gerunddev/jjgraph/logging"
)

// DefaultBinary is the jj executable looked up on PATH.
const DefaultBinary = "jj"

// CLI runs jj in a repository directory.
type CLI struct {
	// Binary is the jj executable. Empty means DefaultBinary.
	Binary string

	// Dir is the working directory for jj commands. Empty means the
	// current directory.
	Dir string
}

// NewCLI creates a CLI for the repository at dir.
func NewCLI(binary, dir string) *CLI {
	return &CLI{Binary: binary, Dir: dir}
}

func (c *CLI) binary() string {
	if c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

// run executes jj and returns stdout. Failures carry the arguments and
// whatever jj wrote to stderr.
func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"--no-pager", "--color=never"}, args...)

	cmd := exec.CommandContext(ctx, c.binary(), full...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf(
			"jj %s failed: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()),
		)
	}

	return stdout.String(), nil
}

// Execute runs an operation's arguments. It implements runner.Executor.
func (c *CLI) Execute(ctx context.Context, args []string) (err error) {
	done := logging.Op("jj.Execute", "args", logging.Truncate(strings.Join(args, " "), 200))
	defer func() { done(err) }()

	_, err = c.run(ctx, args...)
	return err
}

// HasUncommittedChanges reports whether the working-copy commit changes
// any file.
func (c *CLI) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "diff", "-r", "@", "--summary")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Root returns the workspace root directory.
func (c *CLI) Root(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "root")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Version returns the output of jj --version.
func (c *CLI) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Snapshot reads the commits in revset.
func (c *CLI) Snapshot(ctx context.Context, revset string) (snap *Snapshot, err error) {
	done := logging.OpWithResult("jj.Snapshot", "revset", revset)
	defer func() {
		if snap != nil {
			done(err, "nodes", len(snap.Nodes), "dirty", snap.HasUncommittedChanges)
			return
		}
		done(err)
	}()

	if revset == "" {
		revset = DefaultRevset
	}
	out, err := c.run(ctx, "log", "--no-graph", "-r", revset, "-T", logTemplate)
	if err != nil {
		return nil, err
	}
	return ParseLog(out)
}
