package main

import (
	"fmt"
	"os"

	"cczip/internal/config"
	"cczip/internal/logging"
	"cczip/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	ctxLimitFlag int

	// Compaction flags
	preview      bool
	protectStart int
	protectEnd   int

	// Resolved at startup
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd compacts a session when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "cczip [file|session-id] [target]",
	Short: "cczip - compact Claude Code session transcripts",
	Long: `cczip shrinks a Claude Code session transcript so the resumed session
consumes less context.

It removes whole spans of conversation that have little in common with the
latest user turns, keeps the first and last spans, and patches the surviving
records so the log still forms a single chain.

Target:
  40%      compress by 40% (keep 60% of --ctx-limit)
  120000   keep at most 120000 tokens
  (none)   compress by the configured default (50%)

Examples:
  cczip                       # latest session of this project, default target
  cczip 30% --preview         # show what would be removed
  cczip 6f1c0b3e-2d7a-4e55-9a61-7c1f0d2b8e44 100000`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadRuntime(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runCompress,
}

// contextCmd draws the usage gauge
var contextCmd = &cobra.Command{
	Use:   "context [file|session-id]",
	Short: "Show how much of the context window a session uses",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runContext,
}

// listCmd lists the project's sessions
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"sessions"},
	Short:   "List sessions of the current project, newest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

// restoreCmd undoes the last compaction
var restoreCmd = &cobra.Command{
	Use:   "restore [file|session-id]",
	Short: "Restore a session from its newest backup",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRestore,
}

// watchCmd reports usage as the session grows
var watchCmd = &cobra.Command{
	Use:   "watch [file|session-id]",
	Short: "Report context usage whenever the session file changes",
	Long: `Watches a session transcript and prints its reconciled token usage after
every burst of writes. A warning is printed when usage crosses
watch.warn_percent (default 80).

Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	bindFlags(rootCmd)

	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(watchCmd)
}

// bindFlags registers the root command's flags on cmd.
func bindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/cczip/config.yaml)")
	cmd.PersistentFlags().IntVar(&ctxLimitFlag, "ctx-limit", 200000, "Context window size in tokens")

	cmd.Flags().BoolVar(&preview, "preview", false, "Show the plan without modifying the session")
	cmd.Flags().IntVar(&protectStart, "protect-start", 2, "Leading spans that are never removed")
	cmd.Flags().IntVar(&protectEnd, "protect-end", 3, "Trailing spans that are never removed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime resolves configuration (defaults, file, .env and environment,
// then explicit flags) and initializes logging.
func loadRuntime(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("ctx-limit") {
		c.CtxLimit = ctxLimitFlag
	}
	if flags.Changed("protect-start") {
		c.Compaction.ProtectStart = protectStart
	}
	if flags.Changed("protect-end") {
		c.Compaction.ProtectEnd = protectEnd
	}
	if verbose {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.Initialize(c.Logging)
	if err != nil {
		return err
	}

	cfg = c
	logger = l
	logging.BootDebug("Runtime ready: config=%s ctx_limit=%d protect=%d/%d",
		path, c.CtxLimit, c.Compaction.ProtectStart, c.Compaction.ProtectEnd)
	return nil
}

// newLocator returns a locator for the project of the working directory.
func newLocator() (*session.Locator, error) {
	root, err := cfg.ResolveProjectsDir()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return session.NewLocator(root, cwd), nil
}

// resolveSession maps a file path, session id or "" to a transcript path.
func resolveSession(arg string) (string, error) {
	loc, err := newLocator()
	if err != nil {
		return "", err
	}
	return loc.Resolve(arg)
}
