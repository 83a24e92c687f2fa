package cmd

import (
	"strings"

	"github.com/gg-guard/gg/internal/policy"
)

// action is what the wrapper was asked to do.
type action int

const (
	actionRun action = iota
	actionHelp
	actionVersion
	actionDumpConfig
	actionInitConfig
)

// invocation is the parsed form of gg's own command line.
type invocation struct {
	action action
	check  bool        // classify and decide only
	tool   policy.Tool // forced tool, 0 when auto-detected
	format string      // --dump-config format
	path   string      // --init-config target
	args   []string    // arguments for the wrapped tool
}

// parseArgs separates gg's flags from the wrapped command. Informational
// flags are only recognised in first position; --check, --git and --gh
// may lead the command, and anything after --git, --gh or "--" is passed
// through untouched.
func parseArgs(raw []string) invocation {
	if len(raw) == 0 {
		return invocation{action: actionHelp}
	}

	switch first := raw[0]; {
	case first == "-h" || first == "--help":
		return invocation{action: actionHelp}
	case first == "-V" || first == "--version":
		return invocation{action: actionVersion}
	case first == "--dump-config":
		return invocation{action: actionDumpConfig}
	case strings.HasPrefix(first, "--dump-config="):
		return invocation{action: actionDumpConfig, format: strings.TrimPrefix(first, "--dump-config=")}
	case first == "--init-config":
		inv := invocation{action: actionInitConfig}
		if len(raw) > 1 {
			inv.path = raw[1]
		}
		return inv
	}

	var inv invocation
	for i, a := range raw {
		switch a {
		case "--check":
			inv.check = true
			continue
		case "--git":
			inv.tool = policy.ToolGit
		case "--gh":
			inv.tool = policy.ToolGh
		case "--":
		default:
			inv.args = raw[i:]
			return inv
		}
		inv.args = raw[i+1:]
		return inv
	}
	return inv
}
