package config

import (
	"fmt"
	"strings"

	"github.com/gg-guard/gg/internal/policy"
)

// Validate checks the configuration for invalid values and returns a
// descriptive error if any field is incorrect.
func (c *Config) Validate() error {
	var errs []string

	if _, err := policy.ParsePriority(c.Options.Priority); err != nil {
		errs = append(errs, fmt.Sprintf("options.priority: %v", err))
	}

	switch c.Options.LogFormat {
	case "text", "json":
		// ok
	default:
		errs = append(errs, fmt.Sprintf("invalid options.log_format %q: must be \"text\" or \"json\"", c.Options.LogFormat))
	}

	if c.Options.LogMaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("options.log_max_size_mb must be >= 0, got %d", c.Options.LogMaxSizeMB))
	}

	if c.Exec.GitPath == "" {
		errs = append(errs, "exec.git_path must not be empty")
	}
	if c.Exec.GhPath == "" {
		errs = append(errs, "exec.gh_path must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
