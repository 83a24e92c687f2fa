package gate

import (
	"context"
	"log/slog"
	"time"

	"github.com/gg-guard/gg/internal/audit"
	"github.com/gg-guard/gg/internal/config"
	"github.com/gg-guard/gg/internal/policy"
	"github.com/gg-guard/gg/internal/prompt"
	"github.com/gg-guard/gg/internal/runner"
)

// Result describes how an invocation was classified and decided.
type Result struct {
	Tool     policy.Tool
	Args     []string
	Decision policy.Decision
	Rule     string   // pattern that produced the decision, empty for the default
	Reasons  []string // overlay messages when the overlay tightened the decision
}

// Gate classifies, decides and then acts on a wrapped command.
type Gate struct {
	cfg       *config.Config
	overlay   *policy.Overlay
	logger    audit.Logger
	confirmer prompt.Confirmer
	executor  runner.Executor
	now       func() time.Time
}

// New creates a gate for the loaded configuration. A nil logger disables auditing.
func New(cfg *config.Config, logger audit.Logger, confirmer prompt.Confirmer, executor runner.Executor) *Gate {
	if logger == nil {
		logger = audit.NewNopLogger()
	}
	return &Gate{
		cfg:       cfg,
		logger:    logger,
		confirmer: confirmer,
		executor:  executor,
		now:       time.Now,
	}
}

// SetOverlay installs a Rego overlay consulted after rule evaluation.
func (g *Gate) SetOverlay(o *policy.Overlay) {
	g.overlay = o
}

// Resolve returns forced when it is set, otherwise classifies args.
func (g *Gate) Resolve(forced policy.Tool, args []string) (policy.Tool, error) {
	if forced != 0 {
		slog.Debug("tool forced", "tool", forced)
		return forced, nil
	}
	tool, ok := policy.Classify(g.cfg.Git.Rules, g.cfg.Gh.Rules, g.cfg.PriorityValue(), args)
	if !ok {
		return 0, &UnknownToolError{Args: args}
	}
	slog.Debug("tool classified", "tool", tool)
	return tool, nil
}

// Check determines the tool and the decision without logging or acting.
func (g *Gate) Check(ctx context.Context, forced policy.Tool, args []string) (*Result, error) {
	tool, err := g.Resolve(forced, args)
	if err != nil {
		return nil, err
	}

	decision, rule := policy.Explain(g.cfg.RulesFor(tool), args, g.cfg.Options.DenyByDefault)
	res := &Result{Tool: tool, Args: args, Decision: decision, Rule: rule}

	if g.overlay != nil {
		ov, err := g.overlay.Apply(ctx, tool, args, decision)
		if err != nil {
			return nil, err
		}
		if ov.Decision != decision {
			slog.Debug("rego overlay tightened decision", "from", decision, "to", ov.Decision, "reasons", ov.Reasons)
			res.Decision = ov.Decision
			res.Reasons = ov.Reasons
			res.Rule = ""
		}
	}

	slog.Debug("decision", "tool", tool, "decision", res.Decision, "rule", res.Rule)
	return res, nil
}

// Run checks the command, records the decision and acts on it: allowed
// commands are executed, confirmable ones are executed after consent, and
// blocked ones return *BlockedError.
func (g *Gate) Run(ctx context.Context, forced policy.Tool, args []string) (*Result, error) {
	res, err := g.Check(ctx, forced, args)
	if err != nil {
		return nil, err
	}

	g.record(ctx, res)

	switch res.Decision {
	case policy.DecisionAllow:
		return res, g.exec(ctx, res)

	case policy.DecisionConfirm:
		command := res.Tool.String() + " " + policy.JoinArgs(args)
		ok, err := g.confirm(ctx, command)
		if err != nil {
			return res, &CancelledError{Tool: res.Tool, Args: args, Reason: err.Error()}
		}
		if !ok {
			return res, &CancelledError{Tool: res.Tool, Args: args}
		}
		return res, g.exec(ctx, res)

	default:
		return res, &BlockedError{
			Tool:     res.Tool,
			Args:     args,
			Decision: res.Decision,
			Rule:     res.Rule,
			Reasons:  res.Reasons,
		}
	}
}

func (g *Gate) confirm(ctx context.Context, command string) (bool, error) {
	if g.confirmer == nil {
		return false, prompt.ErrNotTerminal
	}
	return g.confirmer.Confirm(ctx, command)
}

func (g *Gate) exec(ctx context.Context, res *Result) error {
	return g.executor.Run(ctx, g.cfg.BinaryFor(res.Tool), res.Args)
}

// record writes the audit entry. Failures are only reported.
func (g *Gate) record(ctx context.Context, res *Result) {
	entry := audit.Entry{
		Timestamp: g.now(),
		Tool:      res.Tool.String(),
		Args:      res.Args,
		Command:   policy.JoinArgs(res.Args),
		Decision:  res.Decision.String(),
		Rule:      res.Rule,
		Reasons:   res.Reasons,
	}
	if err := g.logger.Log(ctx, entry); err != nil {
		slog.Warn("audit log write failed", "error", err)
	}
}
