package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	"github.com/hupe1980/agentpair/agent"
	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/internal/util"
	"github.com/hupe1980/agentpair/model"
	"github.com/hupe1980/agentpair/orchestrator"
	"github.com/hupe1980/agentpair/provider"
	"github.com/hupe1980/agentpair/results"
	"github.com/hupe1980/agentpair/toolchain"
)

// validatePackagePath resolves path and checks it is an existing directory.
func validatePackagePath(path string) (string, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("Path does not exist: %s", resolved)
	}
	if err != nil {
		return "", err
	}

	if !info.IsDir() {
		return "", fmt.Errorf("Path is not a directory: %s", resolved)
	}

	return resolved, nil
}

// resolveOutputDir returns the absolute output directory, creating it if
// needed. An empty path is the working directory.
func resolveOutputDir(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}

	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	return resolved, nil
}

func newModel() (model.Model, error) {
	return provider.New(cfg.Provider, func(o *provider.Options) {
		o.Model = cfg.Model
	})
}

func newToolchain() toolchain.Toolchain {
	return toolchain.NewExecToolchain(cfg.Toolchain.Apply, func(o *toolchain.Options) {
		o.Logger = logger
	})
}

func writeResults(dir string, res *results.SessionResults) (string, error) {
	md := filepath.Join(dir, results.MarkdownFile)
	if err := results.NewMarkdownWriter().Write(res, md); err != nil {
		return "", err
	}

	if err := results.NewJSONWriter().Write(res, filepath.Join(dir, results.JSONFile)); err != nil {
		return "", err
	}

	return md, nil
}

// console styles terminal output. Styling is dropped when w is not a terminal.
type console struct {
	w   io.Writer
	out *termenv.Output
}

func newConsole(w io.Writer) *console {
	return &console{w: w, out: termenv.NewOutput(w)}
}

func (c *console) bold(s string) string { return c.out.String(s).Bold().String() }

func (c *console) dim(s string) string { return c.color(s, "8") }

func (c *console) green(s string) string { return c.color(s, "2") }

func (c *console) red(s string) string { return c.color(s, "1") }

func (c *console) yellow(s string) string { return c.color(s, "3") }

func (c *console) color(s, ansi string) string {
	return c.out.String(s).Foreground(c.out.Color(ansi)).String()
}

func (c *console) printf(format string, args ...any) { fmt.Fprintf(c.w, format, args...) }

func (c *console) println(args ...any) { fmt.Fprintln(c.w, args...) }

// observer prints Runner progress as it happens.
func (c *console) observer() agent.Observer {
	return agent.ObserverFuncs{
		Text: func(chunk string) { c.printf("%s", chunk) },
		ToolStart: func(name, _ string) {
			c.printf("\n%s\n", c.dim("["+name+"] Running..."))
		},
		ToolEnd: func(name string, res core.ToolResult) {
			c.printf("%s\n", c.toolLine(name, res))
		},
	}
}

func (c *console) toolLine(name string, res core.ToolResult) string {
	prefix := c.dim("[" + name + "]")

	switch name {
	case core.ToolRunLint:
		status := c.green("PASS")
		if lr, ok := res.LintReport(); res.IsError || (ok && !lr.Passed) {
			status = c.red("FAIL")
		}
		return fmt.Sprintf("%s %s: %s", prefix, status, c.dim(res.Content))
	case core.ToolRunBuild:
		status := c.green("OK")
		if res.IsError {
			status = c.red("FAIL")
		}
		return fmt.Sprintf("%s %s: %s", prefix, status, c.dim(util.Truncate(res.Content, 300)))
	case core.ToolReadFile:
		return fmt.Sprintf("%s %s", prefix, c.dim(util.Truncate(res.Content, 200)))
	default:
		return fmt.Sprintf("%s %s", prefix, c.dim(res.Content))
	}
}

func (c *console) prompts() orchestrator.InteractivePrompts {
	return orchestrator.InteractivePrompts{
		Question:  "\n\n" + c.bold("Runner asks:") + " %s\n" + c.bold("Type something:") + " ",
		WhatsNext: "\n\n" + c.bold("What's next?") + "  ( type done to exit ): ",
		FreeText:  "\n\n" + c.bold("Type something:") + " ",
	}
}

func (c *console) summary(out *orchestrator.Outcome) {
	c.println()

	if out.PackagePath != "" {
		c.printf("%s %s\n", c.green("Package:"), out.PackagePath)
	} else {
		c.printf("%s\n", c.yellow("No validated package was produced."))
	}

	c.printf("%s %s (%d turns)\n", c.dim("Session ended:"), out.Reason, out.Turns)

	if out.Score != nil {
		status := c.green("PASS")
		if !out.Score.Passed() {
			status = c.red("FAIL")
		}
		c.printf("%s %d/%d %s %s\n", c.bold("Score:"), out.Score.Total(), evaluation.MaxTotal, out.Score.Grade(), status)
	}

	for _, s := range out.Suggestions {
		c.printf("%s %s\n", c.dim("-"), strings.TrimSpace(s))
	}
}
