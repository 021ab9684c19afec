package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/internal/util"
	"github.com/hupe1980/agentpair/logging"
)

// Command is a templated command line. Args and Env values are rendered with
// text/template against CommandData, e.g. "{{.Dir}}".
type Command struct {
	Args []string `koanf:"args" yaml:"args"`
	Env  []string `koanf:"env" yaml:"env"` // KEY=VALUE pairs appended to the process environment
}

// Options configures ExecToolchain.
type Options struct {
	Init    Command
	Lint    Command
	Build   Command
	WorkDir string
	Logger  logging.Logger
}

// DefaultOptions returns commands for the wetwire-aws Python CLI.
func DefaultOptions() Options {
	cli := []string{"python3", "-m", "wetwire_aws.cli"}
	return Options{
		Init: Command{Args: append(append([]string{}, cli...),
			"init", "{{.Package}}", "-o", "{{.OutputDir}}", "-d", "{{.Description}}", "--force")},
		Lint: Command{Args: append(append([]string{}, cli...), "lint", "{{.Dir}}")},
		Build: Command{
			Args: append(append([]string{}, cli...), "build", "-m", "{{.Package}}", "-f", "yaml"),
			Env:  []string{"PYTHONPATH={{.ParentDir}}"},
		},
		Logger: logging.NoOpLogger{},
	}
}

// ExecToolchain runs toolchain commands as subprocesses.
type ExecToolchain struct {
	opts Options
}

// NewExecToolchain creates an ExecToolchain starting from DefaultOptions.
func NewExecToolchain(optFns ...func(o *Options)) *ExecToolchain {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &ExecToolchain{opts: opts}
}

type runResult struct {
	command  string
	exitCode int
	stdout   string
	stderr   string
}

func (r runResult) combined() string {
	return strings.TrimSpace(r.stdout + "\n" + r.stderr)
}

// Init scaffolds a package. A non-zero exit is returned as *CommandError.
// An empty init command is a no-op.
func (t *ExecToolchain) Init(ctx context.Context, req InitRequest) (string, error) {
	if len(t.opts.Init.Args) == 0 {
		return "", nil
	}

	res, err := t.run(ctx, "init", t.opts.Init, CommandData{
		Package:     req.Package,
		OutputDir:   req.OutputDir,
		Description: req.Description,
	})
	if err != nil {
		return "", err
	}

	if res.exitCode != 0 {
		return res.stdout, &CommandError{Command: res.command, ExitCode: res.exitCode, Stdout: res.stdout, Stderr: res.stderr}
	}

	return res.stdout, nil
}

// Lint checks the package in dir. Any non-zero exit is a failing report whose
// issues are the non-empty output lines.
func (t *ExecToolchain) Lint(ctx context.Context, dir string) (core.LintReport, error) {
	res, err := t.run(ctx, "lint", t.opts.Lint, CommandData{Dir: dir})
	if err != nil {
		return core.LintReport{}, err
	}

	report := core.LintReport{
		Passed: res.exitCode == 0,
		Output: res.stdout + "\n" + res.stderr,
	}

	if !report.Passed {
		report.Issues = parseIssues(res.combined())
	}

	return report, nil
}

// Build generates output for a package. Warnings are counted from output
// lines mentioning "warning".
func (t *ExecToolchain) Build(ctx context.Context, req BuildRequest) (core.BuildReport, error) {
	res, err := t.run(ctx, "build", t.opts.Build, CommandData{
		Package:   req.Package,
		Dir:       req.Dir,
		OutputDir: req.OutputDir,
		ParentDir: req.ParentDir,
	})
	if err != nil {
		return core.BuildReport{}, err
	}

	if res.exitCode != 0 {
		return core.BuildReport{OK: false, Output: res.stderr}, nil
	}

	return core.BuildReport{
		OK:       true,
		Output:   res.stdout,
		Warnings: countWarnings(res.combined()),
	}, nil
}

func (t *ExecToolchain) run(ctx context.Context, name string, c Command, data CommandData) (runResult, error) {
	if len(c.Args) == 0 {
		return runResult{}, fmt.Errorf("%s: no command configured", name)
	}

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		rendered, err := util.RenderTemplate(a, data)
		if err != nil {
			return runResult{}, fmt.Errorf("%s: render argument %d: %w", name, i, err)
		}
		args[i] = rendered
	}

	env := make([]string, len(c.Env))
	for i, e := range c.Env {
		rendered, err := util.RenderTemplate(e, data)
		if err != nil {
			return runResult{}, fmt.Errorf("%s: render env %d: %w", name, i, err)
		}
		env[i] = rendered
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = t.opts.WorkDir
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	commandLine := strings.Join(args, " ")
	t.opts.Logger.Debug("toolchain.command.start", "step", name, "command", commandLine)

	res := runResult{command: commandLine}

	err := cmd.Run()
	res.stdout, res.stderr = stdout.String(), stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.opts.Logger.Error("toolchain.command.error", "step", name, "error", err.Error())
			return runResult{}, fmt.Errorf("%s: run %q: %w", name, commandLine, err)
		}
		res.exitCode = exitErr.ExitCode()
	}

	t.opts.Logger.Debug("toolchain.command.done", "step", name, "exit_code", res.exitCode)

	return res, nil
}

func parseIssues(output string) []string {
	var issues []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			issues = append(issues, line)
		}
	}
	return issues
}

func countWarnings(output string) int {
	n := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(strings.ToLower(line), "warning") {
			n++
		}
	}
	return n
}
