package policy

// gitCommands and ghCommands are the first-level subcommands used to
// classify a command when no configured rule matches. They must stay
// disjoint; subcommands both tools share (e.g. "status") belong in neither.
var (
	gitCommands = commandSet(
		"add", "bisect", "blame", "branch", "checkout", "cherry-pick",
		"clean", "clone", "commit", "config", "diff", "fetch", "init",
		"log", "merge", "mv", "pull", "push", "rebase", "reflog", "remote",
		"reset", "restore", "revert", "rm", "show", "stash", "submodule",
		"switch", "tag", "worktree",
	)
	ghCommands = commandSet(
		"api", "auth", "cache", "codespace", "extension", "gist", "gpg-key",
		"issue", "label", "pr", "project", "release", "repo", "ruleset",
		"run", "search", "secret", "ssh-key", "variable",
	)
)

func commandSet(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Classify determines which tool args target.
//
// Configured rules are consulted first: if exactly one tool's rules match,
// that tool wins; if both match, priority decides. With no rule match the
// first argument is looked up in the built-in subcommand tables. ok is
// false when the tool cannot be determined.
func Classify(git, gh RuleSet, priority Priority, args []string) (tool Tool, ok bool) {
	gitMatch := HasAnyMatch(git, args)
	ghMatch := HasAnyMatch(gh, args)

	switch {
	case gitMatch && !ghMatch:
		return ToolGit, true
	case ghMatch && !gitMatch:
		return ToolGh, true
	case gitMatch && ghMatch:
		return priority.Tool(), true
	default:
		return ClassifySubcommand(args)
	}
}

// ClassifySubcommand classifies args by their first token alone.
func ClassifySubcommand(args []string) (Tool, bool) {
	if len(args) == 0 {
		return 0, false
	}
	_, isGit := gitCommands[args[0]]
	_, isGh := ghCommands[args[0]]

	switch {
	case isGit && !isGh:
		return ToolGit, true
	case isGh && !isGit:
		return ToolGh, true
	default:
		return 0, false
	}
}
