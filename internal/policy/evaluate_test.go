package policy

import (
	"strings"
	"testing"
)

func args(s string) []string {
	return strings.Fields(s)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		rules         RuleSet
		command       string
		denyByDefault bool
		want          Decision
	}{
		{
			name:    "exact allow",
			rules:   RuleSet{Allow: []string{"pr list"}},
			command: "pr list", denyByDefault: true,
			want: DecisionAllow,
		},
		{
			name:    "prefix allow",
			rules:   RuleSet{Allow: []string{"pr list"}},
			command: "pr list --json url", denyByDefault: true,
			want: DecisionAllow,
		},
		{
			name:    "glob allow",
			rules:   RuleSet{Allow: []string{"api GET *"}},
			command: "api GET /repos/foo/bar", denyByDefault: true,
			want: DecisionAllow,
		},
		{
			name:    "force push denied",
			rules:   RuleSet{Allow: []string{"push"}, Deny: []string{"push --force*"}},
			command: "push --force origin main", denyByDefault: true,
			want: DecisionDeny,
		},
		{
			name:    "plain push allowed",
			rules:   RuleSet{Allow: []string{"push"}, Deny: []string{"push --force*"}},
			command: "push origin main", denyByDefault: true,
			want: DecisionAllow,
		},
		{
			name:    "deny beats broader allow",
			rules:   RuleSet{Allow: []string{"pr *"}, Deny: []string{"pr merge"}},
			command: "pr merge", denyByDefault: true,
			want: DecisionDeny,
		},
		{
			name:    "deny beats confirm",
			rules:   RuleSet{Confirm: []string{"pr *"}, Deny: []string{"pr merge"}},
			command: "pr merge", denyByDefault: true,
			want: DecisionDeny,
		},
		{
			name:    "confirm beats allow",
			rules:   RuleSet{Allow: []string{"push*"}, Confirm: []string{"push"}},
			command: "push origin main", denyByDefault: false,
			want: DecisionConfirm,
		},
		{
			name:    "confirm only",
			rules:   RuleSet{Confirm: []string{"pr create"}},
			command: "pr create", denyByDefault: true,
			want: DecisionConfirm,
		},
		{
			name:    "no match default deny",
			rules:   RuleSet{Allow: []string{"pr list"}},
			command: "repo delete foo", denyByDefault: true,
			want: DecisionDefaultDeny,
		},
		{
			name:    "no match default allow",
			rules:   RuleSet{Allow: []string{"pr list"}},
			command: "repo delete foo", denyByDefault: false,
			want: DecisionAllow,
		},
		{
			name:    "empty rules deny by default",
			command: "status", denyByDefault: true,
			want: DecisionDefaultDeny,
		},
		{
			name:    "deny listed last still wins",
			rules:   RuleSet{Allow: []string{"*"}, Confirm: []string{"*"}, Deny: []string{"x", "y", "push*"}},
			command: "push", denyByDefault: false,
			want: DecisionDeny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.rules, args(tt.command), tt.denyByDefault)
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.command, got, tt.want)
			}
		})
	}
}

func TestEvaluate_EmptyRulesFollowDefault(t *testing.T) {
	for _, c := range []string{"", "status", "push --force", "pr list", "anything at all"} {
		if got := Evaluate(RuleSet{}, args(c), true); got != DecisionDefaultDeny {
			t.Errorf("Evaluate(%q, denyByDefault) = %s, want %s", c, got, DecisionDefaultDeny)
		}
		if got := Evaluate(RuleSet{}, args(c), false); got != DecisionAllow {
			t.Errorf("Evaluate(%q, allowByDefault) = %s, want %s", c, got, DecisionAllow)
		}
	}
}

func TestEvaluate_JoinsWithSingleSpaces(t *testing.T) {
	rules := RuleSet{Deny: []string{"commit -m fix bug"}}
	// A single argument containing a space is indistinguishable from two.
	if got := Evaluate(rules, []string{"commit", "-m", "fix bug"}, false); got != DecisionDeny {
		t.Errorf("got %s, want %s", got, DecisionDeny)
	}
	// Embedded double spaces are kept literally.
	if got := Evaluate(rules, []string{"commit", "-m", "fix  bug"}, false); got != DecisionAllow {
		t.Errorf("got %s, want %s", got, DecisionAllow)
	}
}

func TestEvaluate_GlobLiteralsDoNotOverlap(t *testing.T) {
	rules := RuleSet{Allow: []string{"api repos/*/repos"}}
	if got := Evaluate(rules, []string{"api", "repos/repos"}, true); got != DecisionDefaultDeny {
		t.Errorf("got %s, want %s", got, DecisionDefaultDeny)
	}
	if got := Evaluate(rules, []string{"api", "repos/octo/repos"}, true); got != DecisionAllow {
		t.Errorf("got %s, want %s", got, DecisionAllow)
	}
}

func TestExplain_ReportsMatchedPattern(t *testing.T) {
	rules := RuleSet{
		Allow:   []string{"status"},
		Confirm: []string{"push"},
		Deny:    []string{"push --force*", "push -f*"},
	}

	d, p := Explain(rules, args("push -f origin"), true)
	if d != DecisionDeny || p != "push -f*" {
		t.Errorf("Explain = (%s, %q), want (DENY, %q)", d, p, "push -f*")
	}

	d, p = Explain(rules, args("push origin"), true)
	if d != DecisionConfirm || p != "push" {
		t.Errorf("Explain = (%s, %q), want (CONFIRM, %q)", d, p, "push")
	}

	d, p = Explain(rules, args("fetch"), true)
	if d != DecisionDefaultDeny || p != "" {
		t.Errorf("Explain = (%s, %q), want (DEFAULT_DENY, \"\")", d, p)
	}
}

func TestHasAnyMatch(t *testing.T) {
	rules := RuleSet{Allow: []string{"push"}, Deny: []string{"push --force*"}}

	tests := []struct {
		command string
		want    bool
	}{
		{"push origin main", true},
		{"push --force", true},
		{"pull", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasAnyMatch(rules, args(tt.command)); got != tt.want {
			t.Errorf("HasAnyMatch(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}

	if !HasAnyMatch(RuleSet{Confirm: []string{"tag*"}}, args("tag v1")) {
		t.Error("confirm patterns should count towards HasAnyMatch")
	}
	if HasAnyMatch(RuleSet{}, args("push")) {
		t.Error("empty rule set should never match")
	}
}

func TestDecisionBlocked(t *testing.T) {
	blocked := map[Decision]bool{
		DecisionAllow:       false,
		DecisionConfirm:     false,
		DecisionDeny:        true,
		DecisionDefaultDeny: true,
	}
	for d, want := range blocked {
		if got := d.Blocked(); got != want {
			t.Errorf("%s.Blocked() = %v, want %v", d, got, want)
		}
	}
}
