// Package kiro installs agent and MCP configuration for the Kiro CLI and
// launches design sessions through it.
package kiro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Names of the Kiro executables, in lookup order.
var binaries = []string{"kiro-cli", "kiro"}

var lookPath = exec.LookPath

// ErrNotInstalled is returned by Launch when no Kiro executable is on PATH.
var ErrNotInstalled = errors.New("kiro: kiro-cli not found in PATH")

// Config describes the custom agent and the MCP server it uses.
type Config struct {
	AgentName   string   `koanf:"agent_name" yaml:"agent_name"`
	AgentPrompt string   `koanf:"agent_prompt" yaml:"agent_prompt"`
	MCPCommand  string   `koanf:"mcp_command" yaml:"mcp_command"`
	MCPArgs     []string `koanf:"mcp_args" yaml:"mcp_args"`
}

// MCPServer is one entry of an mcp.json document.
type MCPServer struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// MCPConfig is the project level .kiro/mcp.json document.
type MCPConfig struct {
	MCPServers map[string]MCPServer `json:"mcpServers"`
}

// AgentConfig is the ~/.kiro/agents/<name>.json document.
type AgentConfig struct {
	Name         string   `json:"name"`
	SystemPrompt string   `json:"systemPrompt"`
	MCPServers   []string `json:"mcpServers"`
}

// NewMCPConfig returns the MCP configuration registering cfg's server.
func NewMCPConfig(cfg Config) MCPConfig {
	args := append([]string{}, cfg.MCPArgs...)
	return MCPConfig{MCPServers: map[string]MCPServer{
		cfg.MCPCommand: {Command: cfg.MCPCommand, Args: args},
	}}
}

// NewAgentConfig returns the agent configuration for cfg.
func NewAgentConfig(cfg Config) AgentConfig {
	return AgentConfig{
		Name:         cfg.AgentName,
		SystemPrompt: cfg.AgentPrompt,
		MCPServers:   []string{cfg.MCPCommand},
	}
}

// Paths are the files written by InstallConfigs.
type Paths struct {
	MCPConfig   string
	AgentConfig string
}

// InstallConfigs writes <projectDir>/.kiro/mcp.json and
// <homeDir>/.kiro/agents/<agent>.json. Empty directories default to the
// working directory and the user's home.
func InstallConfigs(cfg Config, projectDir, homeDir string) (Paths, error) {
	if cfg.AgentName == "" || cfg.MCPCommand == "" {
		return Paths{}, errors.New("kiro: agent name and MCP command are required")
	}

	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Paths{}, err
		}
		projectDir = wd
	}

	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		homeDir = home
	}

	paths := Paths{
		MCPConfig:   filepath.Join(projectDir, ".kiro", "mcp.json"),
		AgentConfig: filepath.Join(homeDir, ".kiro", "agents", cfg.AgentName+".json"),
	}

	if err := writeJSON(paths.MCPConfig, NewMCPConfig(cfg)); err != nil {
		return Paths{}, err
	}

	if err := writeJSON(paths.AgentConfig, NewAgentConfig(cfg)); err != nil {
		return Paths{}, err
	}

	return paths, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// Installed reports whether a Kiro executable is on PATH.
func Installed() bool {
	_, err := binary()
	return err == nil
}

func binary() (string, error) {
	for _, b := range binaries {
		if p, err := lookPath(b); err == nil {
			return p, nil
		}
	}
	return "", ErrNotInstalled
}

// BuildCommand returns the kiro-cli argument vector for a chat session.
func BuildCommand(agentName, prompt string, nonInteractive bool) []string {
	cmd := []string{"kiro-cli", "chat", "--agent", agentName}
	if nonInteractive {
		cmd = append(cmd, "--non-interactive")
	}
	return append(cmd, "--prompt", prompt)
}

// LaunchOptions configures Launch.
type LaunchOptions struct {
	ProjectDir     string
	HomeDir        string
	NonInteractive bool
	// Stdin, Stdout and Stderr are attached to the process. Nil output
	// writers capture into the returned LaunchResult.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// LaunchResult is the outcome of a Kiro session.
type LaunchResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Launch installs the configuration and runs a Kiro chat session with prompt.
func Launch(ctx context.Context, cfg Config, prompt string, optFns ...func(o *LaunchOptions)) (LaunchResult, error) {
	var opts LaunchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	bin, err := binary()
	if err != nil {
		return LaunchResult{}, err
	}

	if _, err := InstallConfigs(cfg, opts.ProjectDir, opts.HomeDir); err != nil {
		return LaunchResult{}, err
	}

	args := BuildCommand(cfg.AgentName, prompt, opts.NonInteractive)

	cmd := exec.CommandContext(ctx, bin, args[1:]...)
	cmd.Dir = opts.ProjectDir
	cmd.Stdin = opts.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	res := LaunchResult{}
	err = cmd.Run()
	res.Stdout, res.Stderr = stdout.String(), stderr.String()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, err
}
