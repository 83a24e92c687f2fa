package policy

import "fmt"

// Decision is the outcome of evaluating a command against a RuleSet.
type Decision string

const (
	DecisionAllow       Decision = "ALLOW"
	DecisionConfirm     Decision = "CONFIRM"
	DecisionDeny        Decision = "DENY"
	DecisionDefaultDeny Decision = "DEFAULT_DENY"
)

func (d Decision) String() string { return string(d) }

// Blocked reports whether the decision stops the invocation outright.
func (d Decision) Blocked() bool {
	return d == DecisionDeny || d == DecisionDefaultDeny
}

// Tool identifies the wrapped binary an invocation targets.
type Tool int

const (
	ToolGit Tool = iota + 1
	ToolGh
)

func (t Tool) String() string {
	switch t {
	case ToolGit:
		return "git"
	case ToolGh:
		return "gh"
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// Priority breaks ties when both tools' rules match the same command.
type Priority string

const (
	PriorityGit Priority = "git"
	PriorityGh  Priority = "gh"
)

// ParsePriority converts a configuration value into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityGit, PriorityGh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q (want %q or %q)", s, PriorityGit, PriorityGh)
	}
}

// Tool returns the tool preferred by this priority.
func (p Priority) Tool() Tool {
	if p == PriorityGh {
		return ToolGh
	}
	return ToolGit
}

// RuleSet holds the ordered deny, confirm and allow patterns for one tool.
type RuleSet struct {
	Allow   []string `mapstructure:"allow" toml:"allow" yaml:"allow" json:"allow"`
	Confirm []string `mapstructure:"confirm" toml:"confirm" yaml:"confirm" json:"confirm"`
	Deny    []string `mapstructure:"deny" toml:"deny" yaml:"deny" json:"deny"`
}

// Empty reports whether the rule set has no patterns at all.
func (r RuleSet) Empty() bool {
	return len(r.Allow) == 0 && len(r.Confirm) == 0 && len(r.Deny) == 0
}
