package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gg-guard/gg/internal/policy"
	"github.com/spf13/viper"
)

// Environment variables recognised by gg.
const (
	EnvConfig    = "GG_CONFIG"
	EnvNoLocal   = "GG_NO_LOCAL"
	EnvVerbose   = "GG_VERBOSE"
	EnvLogFormat = "GG_LOG_FORMAT"
	EnvGitPath   = "GG_GIT_PATH"
	EnvGhPath    = "GG_GH_PATH"
	EnvLogFile   = "GG_LOG_FILE"
)

// LocalConfigName is the per-project config file looked up in the working directory.
const LocalConfigName = "gg.toml"

// Config is the top-level configuration for gg.
type Config struct {
	Git     ToolConfig `mapstructure:"git" toml:"git" yaml:"git" json:"git"`
	Gh      ToolConfig `mapstructure:"gh" toml:"gh" yaml:"gh" json:"gh"`
	Options Options    `mapstructure:"options" toml:"options" yaml:"options" json:"options"`
	Exec    ExecConfig `mapstructure:"exec" toml:"exec" yaml:"exec" json:"exec"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// ToolConfig holds the policy for one wrapped tool.
type ToolConfig struct {
	Rules policy.RuleSet `mapstructure:"rules" toml:"rules" yaml:"rules" json:"rules"`
}

// Options are the global switches of the [options] table.
type Options struct {
	Log           bool   `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	DenyByDefault bool   `mapstructure:"deny_by_default" toml:"deny_by_default" yaml:"deny_by_default" json:"deny_by_default"`
	Priority      string `mapstructure:"priority" toml:"priority" yaml:"priority" json:"priority"` // git or gh
	LogFile       string `mapstructure:"log_file" toml:"log_file,omitempty" yaml:"log_file,omitempty" json:"log_file,omitempty"`
	LogFormat     string `mapstructure:"log_format" toml:"log_format" yaml:"log_format" json:"log_format"` // text or json
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" toml:"log_max_size_mb" yaml:"log_max_size_mb" json:"log_max_size_mb"`
	RegoPolicy    string `mapstructure:"rego_policy" toml:"rego_policy,omitempty" yaml:"rego_policy,omitempty" json:"rego_policy,omitempty"`
}

// ExecConfig names the binaries that allowed commands are handed to.
type ExecConfig struct {
	GitPath string `mapstructure:"git_path" toml:"git_path" yaml:"git_path" json:"git_path"`
	GhPath  string `mapstructure:"gh_path" toml:"gh_path" yaml:"gh_path" json:"gh_path"`
}

// RulesFor returns the rule set that applies to tool.
func (c *Config) RulesFor(tool policy.Tool) policy.RuleSet {
	if tool == policy.ToolGh {
		return c.Gh.Rules
	}
	return c.Git.Rules
}

// BinaryFor returns the executable configured for tool.
func (c *Config) BinaryFor(tool policy.Tool) string {
	if tool == policy.ToolGh {
		return c.Exec.GhPath
	}
	return c.Exec.GitPath
}

// PriorityValue returns the parsed tie-breaker. Validate guarantees it parses.
func (c *Config) PriorityValue() policy.Priority {
	p, err := policy.ParsePriority(c.Options.Priority)
	if err != nil {
		return policy.PriorityGit
	}
	return p
}

// setDefaults registers the values used when a key is absent. With no
// config file at all every command is denied.
func setDefaults(v *viper.Viper) {
	v.SetDefault("options.log", true)
	v.SetDefault("options.deny_by_default", true)
	v.SetDefault("options.priority", string(policy.PriorityGit))
	v.SetDefault("options.log_file", "")
	v.SetDefault("options.log_format", "text")
	v.SetDefault("options.log_max_size_mb", 10)
	v.SetDefault("options.rego_policy", "")
	v.SetDefault("exec.git_path", "git")
	v.SetDefault("exec.gh_path", "gh")
	for _, tool := range []string{"git", "gh"} {
		v.SetDefault(tool+".rules.allow", []string{})
		v.SetDefault(tool+".rules.confirm", []string{})
		v.SetDefault(tool+".rules.deny", []string{})
	}
}

// bindEnvVars binds the environment overrides that take precedence over
// the config file.
func bindEnvVars(v *viper.Viper) {
	bindings := map[string]string{
		"exec.git_path":    EnvGitPath,
		"exec.gh_path":     EnvGhPath,
		"options.log_file": EnvLogFile,
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)
	return v
}

// SearchPaths returns the config file candidates in lookup order. The
// working-directory file and $GG_CONFIG are skipped when GG_NO_LOCAL is set.
func SearchPaths() []string {
	var paths []string

	if _, noLocal := os.LookupEnv(EnvNoLocal); !noLocal {
		paths = append(paths, LocalConfigName)
		if p := os.Getenv(EnvConfig); p != "" {
			paths = append(paths, p)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("could not determine home directory", "error", err)
		return paths
	}

	xdg := filepath.Join(home, ".config", "gg", "config.toml")
	paths = append(paths, xdg)

	if dir, err := os.UserConfigDir(); err == nil {
		if platform := filepath.Join(dir, "gg", "config.toml"); platform != xdg {
			paths = append(paths, platform)
		}
	}

	return append(paths, filepath.Join(home, ".gg.toml"))
}

// DefaultLogFile returns the audit log location used when log_file is unset.
func DefaultLogFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining audit log path: %w", err)
	}
	return filepath.Join(home, ".local", "share", "gg", "audit.log"), nil
}

// Load returns the first valid configuration found on the search path, or
// the defaults if there is none.
func Load() (*Config, error) {
	return LoadFrom(SearchPaths())
}

// LoadFrom tries each path in order. Missing files are skipped silently;
// files that fail to parse or validate are reported and skipped.
func LoadFrom(paths []string) (*Config, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		if err != nil {
			slog.Warn("skipping config file", "path", path, "error", err)
			continue
		}
		slog.Debug("config loaded", "path", path)
		return cfg, nil
	}

	slog.Debug("no config found, using defaults (deny all)")
	return Defaults()
}

// LoadFile reads and validates a single config file.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if !knownExtension(path) {
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Defaults returns the configuration used when no file is found.
func Defaults() (*Config, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func knownExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// ErrExists is returned by WriteDefault when the target file already exists.
var ErrExists = errors.New("config file already exists")

// WriteDefault creates a commented default config at path (or
// ~/.config/gg/config.toml when path is empty). It never overwrites.
func WriteDefault(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, ".config", "gg", "config.toml")
	}

	if _, err := os.Stat(path); err == nil {
		return path, ErrExists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

const defaultConfig = `# gg configuration
# See: gg --help

[options]
log = true               # append every decision to the audit log
deny_by_default = true   # commands matching no rule are blocked
priority = "git"         # "git" or "gh": wins when both tools' rules match
# log_file = "~/.local/share/gg/audit.log"
log_format = "text"      # "text" or "json"
log_max_size_mb = 10     # rotate the audit log past this size (0 = 100)
# rego_policy = "/path/to/policy.rego"

# Patterns match the arguments joined with single spaces.
# "*" matches anything; a pattern without "*" also matches as a
# whole-word prefix ("pr list" matches "pr list --json url").
# Precedence: deny > confirm > allow > default.

[git.rules]
allow = ["status*", "log*", "diff*", "show*", "branch*", "fetch*", "pull*", "add*", "commit*"]
confirm = ["push*", "rebase*", "reset*"]
deny = ["push --force*", "push -f*", "reset --hard*", "clean -f*"]

[gh.rules]
allow = ["pr list*", "pr view*", "pr status*", "issue list*", "issue view*", "run list*", "run view*"]
confirm = ["pr create*", "pr merge*", "issue create*"]
deny = ["repo delete*", "release delete*", "secret *"]
`
