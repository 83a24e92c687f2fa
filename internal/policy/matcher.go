package policy

import (
	"strings"

	"github.com/gobwas/glob"
)

// Wildcard is the only special character in a rule pattern.
const Wildcard = "*"

// MatchPattern reports whether a rule pattern matches a command string.
//
// A pattern matches when it equals the command, when it matches as a glob
// in which "*" spans any run of characters (spaces and slashes included),
// or when it has no "*" and is a whole-token prefix of the command.
// "pr list" therefore matches "pr list --json url" but "push" does not
// match "pushx".
func MatchPattern(pattern, command string) bool {
	return matchExact(pattern, command) ||
		matchGlob(pattern, command) ||
		matchPrefix(pattern, command)
}

func matchExact(pattern, command string) bool {
	return pattern == command
}

func matchGlob(pattern, command string) bool {
	if !strings.Contains(pattern, Wildcard) {
		return false
	}
	// The literals around a single "*" must not overlap: "a*a" needs at
	// least two characters.
	if len(command) < len(pattern)-strings.Count(pattern, Wildcard) {
		return false
	}
	g, err := compileGlob(pattern)
	if err != nil {
		return false
	}
	return g.Match(command)
}

func matchPrefix(pattern, command string) bool {
	if strings.Contains(pattern, Wildcard) {
		return false
	}
	rest, ok := strings.CutPrefix(command, pattern)
	return ok && strings.HasPrefix(rest, " ")
}

// compileGlob compiles a pattern with every character except "*" taken
// literally. No separators are passed, so "*" is not stopped by "/" or " ".
func compileGlob(pattern string) (glob.Glob, error) {
	parts := strings.Split(pattern, Wildcard)
	for i, p := range parts {
		parts[i] = glob.QuoteMeta(p)
	}
	return glob.Compile(strings.Join(parts, Wildcard))
}
