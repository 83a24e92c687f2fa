package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gg-guard/gg/internal/audit"
	"github.com/gg-guard/gg/internal/config"
	"github.com/gg-guard/gg/internal/gate"
	"github.com/gg-guard/gg/internal/logging"
	"github.com/gg-guard/gg/internal/prompt"
	"github.com/gg-guard/gg/internal/runner"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// SetVersionInfo is called from main to inject build-time version info.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	buildDate = d
}

// app bundles the streams and collaborators of one gg run.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	confirmer prompt.Confirmer
	executor  runner.Executor
}

func defaultApp() *app {
	return &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		confirmer: prompt.NewTerminal(os.Stdin, os.Stderr),
		executor:  runner.NewProcess(),
	}
}

const longHelp = `A safety proxy for git and gh that enforces command policies.
Auto-detects whether a command is git or gh.`

const usageTemplate = `Usage: gg [--check] [--git|--gh] <command...>

Options:
  --git          Force command as git
  --gh           Force command as gh
  --check        Show the tool and decision without running anything
  --dump-config  Show loaded configuration and exit (=toml, =yaml or =json)
  --init-config  Write a default config file (default ~/.config/gg/config.toml)
  -h, --help     Show this help message
  -V, --version  Show version

Examples:
  gg push origin main          # auto-detect -> git push
  gg pr list                   # auto-detect -> gh pr list
  gg --git status              # force -> git status
  gg --gh status               # force -> gh status
  gg push --force origin main  # denied if configured

Config search order:
  1. ./gg.toml
  2. $GG_CONFIG
  3. ~/.config/gg/config.toml
  4. Platform config dir (~/Library/Application Support/gg/config.toml on macOS)
  5. ~/.gg.toml
  Set GG_NO_LOCAL to skip 1 and 2.

Environment:
  GG_VERBOSE       Debug output on stderr
  GG_LOG_FORMAT    Debug output format (text or json)
  GG_GIT_PATH      git binary to run
  GG_GH_PATH       gh binary to run
  GG_LOG_FILE      Audit log path

Exit codes:
  0     Success
  77    Command blocked by policy
  78    Could not determine git/gh (use --git or --gh)
  other Passthrough from git/gh
`

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "gg [--git|--gh] <command...>",
		Short:   "gg - Git & GitHub CLI Guard",
		Long:    longHelp,
		Version: version,
		// Everything after gg belongs to git or gh, so cobra must not
		// interpret flags like --force.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_, verbose := os.LookupEnv(config.EnvVerbose)
			logging.Setup(os.Getenv(config.EnvLogFormat), verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, parseArgs(args))
		},
	}
	root.SetUsageTemplate(usageTemplate)
	root.SetOut(a.stderr)
	root.SetErr(a.stderr)
	return root
}

// Execute runs gg with the process arguments and returns the exit code.
func Execute() int {
	return run(context.Background(), defaultApp(), os.Args[1:])
}

func run(ctx context.Context, a *app, args []string) int {
	// cobra reads os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(a.stderr, err)
}

func (a *app) run(cmd *cobra.Command, inv invocation) error {
	switch inv.action {
	case actionHelp:
		return cmd.Help()
	case actionVersion:
		fmt.Fprintf(a.stderr, "gg %s (commit: %s, built: %s)\n", version, commit, buildDate)
		return nil
	case actionDumpConfig:
		return a.dumpConfig(inv.format)
	case actionInitConfig:
		return a.initConfig(inv.path)
	}

	if len(inv.args) == 0 {
		return errNoCommand
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()

	// --check leaves no trace, so the audit log is only opened for real runs.
	var logger audit.Logger
	if !inv.check {
		logger = a.openAuditLog(cfg)
		defer logger.Close()
	}

	g := gate.New(cfg, logger, a.confirmer, a.executor)
	if cfg.Options.RegoPolicy != "" {
		overlay, err := loadOverlay(ctx, cfg.Options.RegoPolicy)
		if err != nil {
			return err
		}
		g.SetOverlay(overlay)
	}

	if inv.check {
		return a.check(ctx, g, inv)
	}
	_, err = g.Run(ctx, inv.tool, inv.args)
	return err
}

// check prints the classification and decision. Blocked decisions still
// map to their exit codes so scripts can test commands up front.
func (a *app) check(ctx context.Context, g *gate.Gate, inv invocation) error {
	res, err := g.Check(ctx, inv.tool, inv.args)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("%s %s", res.Tool, res.Decision)
	if res.Rule != "" {
		line += fmt.Sprintf(" (rule %q)", res.Rule)
	}
	fmt.Fprintln(a.stdout, line)

	if res.Decision.Blocked() {
		return &gate.BlockedError{
			Tool:     res.Tool,
			Args:     res.Args,
			Decision: res.Decision,
			Rule:     res.Rule,
			Reasons:  res.Reasons,
		}
	}
	return nil
}

// openAuditLog returns the configured audit logger. A log that cannot be
// opened is reported and replaced by a no-op so the command still runs.
func (a *app) openAuditLog(cfg *config.Config) audit.Logger {
	if !cfg.Options.Log {
		return audit.NewNopLogger()
	}

	path := cfg.Options.LogFile
	if path == "" {
		var err error
		if path, err = config.DefaultLogFile(); err != nil {
			fmt.Fprintf(a.stderr, "[gg] could not determine log path\n")
			return audit.NewNopLogger()
		}
	}

	l, err := audit.NewFileLogger(audit.FileConfig{
		Path:      path,
		Format:    cfg.Options.LogFormat,
		MaxSizeMB: cfg.Options.LogMaxSizeMB,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "[gg] log write error: %v\n", err)
		return audit.NewNopLogger()
	}
	slog.Debug("audit log", "path", path, "format", cfg.Options.LogFormat)
	return l
}
