package policy

import "strings"

// JoinArgs builds the command string that patterns are matched against.
// Arguments are joined with single spaces and are not re-quoted.
func JoinArgs(args []string) string {
	return strings.Join(args, " ")
}

// Evaluate decides what to do with args under rules.
//
// Precedence is fixed: deny beats confirm beats allow beats the default.
// When nothing matches the result is DecisionDefaultDeny if denyByDefault
// is set and DecisionAllow otherwise.
func Evaluate(rules RuleSet, args []string, denyByDefault bool) Decision {
	d, _ := Explain(rules, args, denyByDefault)
	return d
}

// HasAnyMatch reports whether args match any pattern of rules, regardless
// of category.
func HasAnyMatch(rules RuleSet, args []string) bool {
	command := JoinArgs(args)
	return firstMatch(rules.Allow, command) >= 0 ||
		firstMatch(rules.Confirm, command) >= 0 ||
		firstMatch(rules.Deny, command) >= 0
}

// Explain returns the decision together with the pattern that produced it.
// The pattern is empty when the default applied.
func Explain(rules RuleSet, args []string, denyByDefault bool) (Decision, string) {
	command := JoinArgs(args)
	for _, c := range []struct {
		patterns []string
		decision Decision
	}{
		{rules.Deny, DecisionDeny},
		{rules.Confirm, DecisionConfirm},
		{rules.Allow, DecisionAllow},
	} {
		if i := firstMatch(c.patterns, command); i >= 0 {
			return c.decision, c.patterns[i]
		}
	}
	if denyByDefault {
		return DecisionDefaultDeny, ""
	}
	return DecisionAllow, ""
}

// firstMatch returns the index of the first pattern matching command, or -1.
func firstMatch(patterns []string, command string) int {
	for i, p := range patterns {
		if MatchPattern(p, command) {
			return i
		}
	}
	return -1
}
