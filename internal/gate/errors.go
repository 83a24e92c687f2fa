package gate

import (
	"fmt"
	"strings"

	"github.com/gg-guard/gg/internal/policy"
)

// BlockedError is returned when policy stops a command (Deny or DefaultDeny).
type BlockedError struct {
	Tool     policy.Tool
	Args     []string
	Decision policy.Decision
	Rule     string   // matched deny pattern, empty for DefaultDeny
	Reasons  []string // messages from the Rego overlay, if it denied
}

func (e *BlockedError) Error() string {
	cmd := e.Tool.String() + " " + policy.JoinArgs(e.Args)
	if e.Decision == policy.DecisionDefaultDeny {
		return fmt.Sprintf("`%s` has no matching rule (deny_by_default=true)", cmd)
	}
	msg := fmt.Sprintf("`%s` is denied by policy", cmd)
	if len(e.Reasons) > 0 {
		msg += ": " + strings.Join(e.Reasons, "; ")
	}
	return msg
}

// UnknownToolError is returned when neither rules nor the subcommand
// tables say which tool a command is for.
type UnknownToolError struct {
	Args []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("cannot determine if `%s` is git or gh", policy.JoinArgs(e.Args))
}

// Hint suggests how to disambiguate explicitly.
func (e *UnknownToolError) Hint() string {
	cmd := policy.JoinArgs(e.Args)
	return fmt.Sprintf("use `gg --git %s` or `gg --gh %s`", cmd, cmd)
}

// CancelledError is returned when a command needing confirmation was not confirmed.
type CancelledError struct {
	Tool   policy.Tool
	Args   []string
	Reason string
}

func (e *CancelledError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "cancelled by user"
}
