// Package config loads agentpair configuration.
//
// Precedence (highest to lowest):
//  1. Command line flags (applied by the CLI)
//  2. Environment variables prefixed with AGENTPAIR_
//  3. YAML config file
//  4. Hardcoded defaults
//
// Environment variables map to keys by stripping the prefix, lowercasing and
// treating a double underscore as nesting:
//
//	AGENTPAIR_MAX_TURNS      -> max_turns
//	AGENTPAIR_LOG__LEVEL     -> log.level
//	AGENTPAIR_KIRO__AGENT_NAME -> kiro.agent_name
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/hupe1980/agentpair/kiro"
	"github.com/hupe1980/agentpair/orchestrator"
	"github.com/hupe1980/agentpair/persona"
	"github.com/hupe1980/agentpair/provider"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AGENTPAIR_"

const maxConfigFileSize = 1024 * 1024

// Config is the agentpair configuration.
type Config struct {
	Provider      string `koanf:"provider"`
	Model         string `koanf:"model"`
	Domain        string `koanf:"domain"`
	Persona       string `koanf:"persona"`
	OutputDir     string `koanf:"output_dir"`
	MaxTurns      int    `koanf:"max_turns"`
	MaxLintCycles int    `koanf:"max_lint_cycles"`
	Stream        bool   `koanf:"stream"`

	Log       LogConfig        `koanf:"log"`
	Toolchain ToolchainConfig  `koanf:"toolchain"`
	Layout    workspace.Layout `koanf:"layout"`
	Kiro      kiro.Config      `koanf:"kiro"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `koanf:"level"`
	Format  string `koanf:"format"`
	Backend string `koanf:"backend"`
}

// ToolchainConfig holds the external lint and build commands.
type ToolchainConfig struct {
	Init  toolchain.Command `koanf:"init"`
	Lint  toolchain.Command `koanf:"lint"`
	Build toolchain.Command `koanf:"build"`
}

// Apply sets the commands of o; it is usable as a toolchain option function.
func (c ToolchainConfig) Apply(o *toolchain.Options) {
	o.Init, o.Lint, o.Build = c.Init, c.Lint, c.Build
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// DefaultPath returns ~/.config/agentpair/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "agentpair", "config.yaml"), nil
}

// Load reads configPath, then applies environment overrides. An empty path
// uses DefaultPath when that file exists; an explicit path must exist.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	explicit := configPath != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	content, err := readConfigFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return content, nil
}

// envKey maps AGENTPAIR_LOG__LEVEL to log.level.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func applyDefaults(cfg *Config) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = provider.Anthropic
	}

	if cfg.Domain == "" {
		cfg.Domain = "aws"
	}

	if cfg.Persona == "" {
		cfg.Persona = persona.Default
	}

	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = orchestrator.DefaultMaxTurns
	}

	if cfg.MaxLintCycles == 0 {
		cfg.MaxLintCycles = orchestrator.DefaultMaxLintCycles
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if cfg.Log.Backend == "" {
		cfg.Log.Backend = "slog"
	}

	tc := toolchain.DefaultOptions()
	if len(cfg.Toolchain.Init.Args) == 0 {
		cfg.Toolchain.Init = tc.Init
	}

	if len(cfg.Toolchain.Lint.Args) == 0 {
		cfg.Toolchain.Lint = tc.Lint
	}

	if len(cfg.Toolchain.Build.Args) == 0 {
		cfg.Toolchain.Build = tc.Build
	}

	layout := workspace.DefaultLayout()
	if cfg.Layout.Marker == "" {
		cfg.Layout.Marker = layout.Marker
		if cfg.Layout.MarkerContent == "" {
			cfg.Layout.MarkerContent = layout.MarkerContent
		}
	}

	if cfg.Layout.SourceExt == "" {
		cfg.Layout.SourceExt = layout.SourceExt
	}

	if cfg.Kiro.AgentName == "" {
		cfg.Kiro.AgentName = "agentpair-runner"
	}

	if cfg.Kiro.MCPCommand == "" {
		cfg.Kiro.MCPCommand = "agentpair"
		if len(cfg.Kiro.MCPArgs) == 0 {
			cfg.Kiro.MCPArgs = []string{"mcp"}
		}
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(provider.Names(), c.Provider) {
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}

	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns))
	}

	if c.MaxLintCycles < 1 {
		errs = append(errs, fmt.Errorf("max_lint_cycles must be positive, got %d", c.MaxLintCycles))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	switch c.Log.Backend {
	case "slog", "zap":
	default:
		errs = append(errs, fmt.Errorf("log.backend must be slog or zap, got %q", c.Log.Backend))
	}

	return errors.Join(errs...)
}
