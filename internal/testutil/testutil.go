// Package testutil provides scripted participants and tool result builders
// for orchestrator tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hupe1980/agentpair/core"
)

// ErrScriptExhausted is returned when a scripted participant runs out of replies.
var ErrScriptExhausted = errors.New("testutil: script exhausted")

// Init builds a successful init_package result.
func Init(name, dir string) core.ToolResult {
	return core.ToolResult{
		Name:    core.ToolInitPackage,
		Content: fmt.Sprintf("Created package '%s' at %s", name, dir),
		Value:   core.PackageInit{Name: name, Dir: dir},
	}
}

// Write builds a successful write_file result.
func Write(filename string) core.ToolResult {
	return core.ToolResult{
		Name:    core.ToolWriteFile,
		Content: fmt.Sprintf("Wrote %s (1 bytes)", filename),
		Value:   core.FileWrite{Filename: filename, Bytes: 1},
	}
}

// Lint builds a run_lint result.
func Lint(passed bool, issues ...string) core.ToolResult {
	content := "Lint passed with no issues"
	if !passed {
		content = "Lint found issues:\n"
		for _, i := range issues {
			content += i + "\n"
		}
	}
	return core.ToolResult{
		Name:    core.ToolRunLint,
		Content: content,
		Value:   core.LintReport{Passed: passed, Issues: issues},
	}
}

// Build builds a run_build result.
func Build(ok bool, warnings int) core.ToolResult {
	content := "Build successful. Output:\nResources: {}"
	if !ok {
		content = "Build failed:\nImportError"
	}
	return core.ToolResult{
		Name:    core.ToolRunBuild,
		Content: content,
		IsError: !ok,
		Value:   core.BuildReport{OK: ok, Warnings: warnings},
	}
}

// Ask builds an ask_developer result.
func Ask(question string) core.ToolResult {
	return core.ToolResult{
		Name:    core.ToolAskDeveloper,
		Content: "QUESTION: " + question,
		Value:   core.Question{Text: question},
	}
}

// Turn builds a runner turn.
func Turn(text string, results ...core.ToolResult) core.Turn {
	return core.Turn{Text: text, Results: results}
}

// ScriptedRunner replays turns in order. An init_package result carrying a
// PackageInit value sets the package name; the directory is OutputDir/name.
type ScriptedRunner struct {
	mu        sync.Mutex
	OutputDir string
	Turns     []core.Turn
	Received  []string
	FileSet   map[string]string
	name      string
}

// NewScriptedRunner creates a runner replaying turns.
func NewScriptedRunner(outputDir string, turns ...core.Turn) *ScriptedRunner {
	return &ScriptedRunner{OutputDir: outputDir, Turns: turns, FileSet: map[string]string{}}
}

// RunTurn implements core.Runner.
func (r *ScriptedRunner) RunTurn(ctx context.Context, message string) (core.Turn, error) {
	if err := ctx.Err(); err != nil {
		return core.Turn{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Received = append(r.Received, message)
	if len(r.Turns) == 0 {
		return core.Turn{}, ErrScriptExhausted
	}

	turn := r.Turns[0]
	r.Turns = r.Turns[1:]

	for _, res := range turn.Results {
		if p, ok := res.Value.(core.PackageInit); ok {
			r.name = p.Name
		}
		if w, ok := res.Value.(core.FileWrite); ok {
			if _, exists := r.FileSet[w.Filename]; !exists {
				r.FileSet[w.Filename] = ""
			}
		}
	}

	return turn, nil
}

// PackageName implements core.Runner.
func (r *ScriptedRunner) PackageName() string { return r.name }

// PackageDir implements core.Runner.
func (r *ScriptedRunner) PackageDir() string {
	if r.name == "" {
		return ""
	}
	return filepath.Join(r.OutputDir, r.name)
}

// Files returns the generated files.
func (r *ScriptedRunner) Files() (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.FileSet))
	for k, v := range r.FileSet {
		out[k] = v
	}
	return out, nil
}

// ScriptedDeveloper replies with canned answers and records every message.
type ScriptedDeveloper struct {
	Replies  []string
	Received []string
	Err      error // Returned once replies are exhausted; defaults to ErrScriptExhausted
}

// NewScriptedDeveloper creates a developer replying in order.
func NewScriptedDeveloper(replies ...string) *ScriptedDeveloper {
	return &ScriptedDeveloper{Replies: replies}
}

// Respond implements core.Developer.
func (d *ScriptedDeveloper) Respond(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.Received = append(d.Received, message)
	if len(d.Replies) == 0 {
		if d.Err != nil {
			return "", d.Err
		}
		return "", ErrScriptExhausted
	}
	reply := d.Replies[0]
	d.Replies = d.Replies[1:]
	return reply, nil
}
