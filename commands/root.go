// Package commands contains the CLI command implementations.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gerunddev/jjgraph/interactive"
	"github.com/gerunddev/jjgraph/jj"
	"github.com/gerunddev/jjgraph/logging"
	"github.com/gerunddev/jjgraph/session"
	"github.com/gerunddev/jjgraph/ui"
)

const (
	// EnvBinary overrides the default jj executable.
	EnvBinary = "JJGRAPH_JJ"

	// EnvRevset overrides the default revset.
	EnvRevset = "JJGRAPH_REVSET"
)

// configKey is the context key for runtime config.
type configKey struct{}

// Config holds runtime configuration for commands.
type Config struct {
	WorkDir string
	Revset  string
	Binary  string
	NoWatch bool
	Refresh time.Duration

	backend session.Backend
}

// Backend returns the jj backend commands run against.
func (c Config) Backend() session.Backend {
	if c.backend != nil {
		return c.backend
	}
	return jj.NewCLI(c.Binary, c.WorkDir)
}

// getConfig retrieves config from context, or returns defaults.
func getConfig(ctx context.Context) Config {
	if cfg, ok := ctx.Value(configKey{}).(Config); ok {
		return cfg
	}

	return Config{}
}

// openSession loads the configured workspace.
func openSession(ctx context.Context) (*session.Session, error) {
	cfg := getConfig(ctx)
	return session.Open(ctx, cfg.Backend(), cfg.Revset)
}

// RootOption customizes the root command.
type RootOption func(*Config)

// WithBackend runs every command against b instead of the jj CLI.
func WithBackend(b session.Backend) RootOption {
	return func(c *Config) { c.backend = b }
}

// NewRootCmd creates the root command.
func NewRootCmd(opts ...RootOption) *cobra.Command {
	var (
		cfg             Config
		interactiveMode bool
	)
	for _, opt := range opts {
		opt(&cfg)
	}

	cmd := &cobra.Command{
		Use:     "jjgraph",
		Short:   "Drag-and-drop commit graph for jj",
		Version: Version,
		Long: `jjgraph shows the commit graph of a jj workspace and edits it with
optimistic previews: every operation is drawn on the graph before jj
runs it, and the graph stays correct while jj catches up.

Without a subcommand the full-screen graph opens.

Examples:
  # Open the graph of the current workspace
  jjgraph

  # Quick actions without the full-screen graph
  jjgraph -i

  # Print the graph
  jjgraph log

  # Move a commit and its descendants onto main
  jjgraph rebase kpqx main

  # Show what a rebase would do without running it
  jjgraph rebase kpqx main --dry-run`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.FromEnv(); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			// Store config in context for subcommands.
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interactiveMode {
				return runInteractive(cmd.Context())
			}
			return runGraph(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(
		&cfg.WorkDir, "dir", "C", "",
		"run as if jj was started in this directory",
	)
	cmd.PersistentFlags().StringVar(
		&cfg.Revset, "revset", os.Getenv(EnvRevset),
		"commits to show (default: jj's mutable commits and trunk)",
	)
	cmd.PersistentFlags().StringVar(
		&cfg.Binary, "jj", envOr(EnvBinary, jj.DefaultBinary),
		"jj executable",
	)
	cmd.PersistentFlags().BoolVar(
		&cfg.NoWatch, "no-watch", false,
		"do not reload when the repository changes on disk",
	)
	cmd.PersistentFlags().DurationVar(
		&cfg.Refresh, "refresh", 0,
		"also reload on this interval, e.g. 30s (0 disables)",
	)
	cmd.Flags().BoolVarP(
		&interactiveMode, "interactive", "i", false,
		"run in interactive mode (quick actions)",
	)

	// Add subcommands.
	cmd.AddCommand(NewLogCmd())
	cmd.AddCommand(NewGotoCmd())
	cmd.AddCommand(NewRebaseCmd())
	cmd.AddCommand(NewHideCmd())
	cmd.AddCommand(NewUncommitCmd())
	cmd.AddCommand(NewAmendCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runGraph(ctx context.Context) error {
	cfg := getConfig(ctx)
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	opts := ui.Options{
		Root:            workspaceRoot(ctx, cfg),
		Watch:           !cfg.NoWatch,
		RefreshInterval: cfg.Refresh,
	}
	return ui.Run(ctx, s, opts)
}

func runInteractive(ctx context.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	return interactive.Run(ctx, s, os.Stdout)
}

// workspaceRoot asks jj for the workspace root, falling back to the
// configured directory.
func workspaceRoot(ctx context.Context, cfg Config) string {
	type rooter interface {
		Root(ctx context.Context) (string, error)
	}
	if r, ok := cfg.Backend().(rooter); ok {
		if root, err := r.Root(ctx); err == nil {
			return root
		}
	}
	if cfg.WorkDir != "" {
		return cfg.WorkDir
	}
	return "."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
