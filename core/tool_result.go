package core

import (
	"context"

	"github.com/hupe1980/agentpair/logging"
)

// Names of the tools available to the Runner.
const (
	ToolInitPackage  = "init_package"
	ToolWriteFile    = "write_file"
	ToolReadFile     = "read_file"
	ToolRunLint      = "run_lint"
	ToolRunBuild     = "run_build"
	ToolAskDeveloper = "ask_developer"
)

// ToolResult is the outcome of a single tool execution during a Runner turn.
// Content is the text fed back to the model; Value optionally carries one of
// the typed reports below so the orchestrator never has to parse Content.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
	Value   any    `json:"-"`
}

// LintReport is attached to run_lint results.
type LintReport struct {
	Passed bool     `json:"passed"`
	Issues []string `json:"issues,omitempty"`
	Output string   `json:"output,omitempty"`
}

// BuildReport is attached to run_build results.
type BuildReport struct {
	OK       bool   `json:"ok"`
	Output   string `json:"output,omitempty"`
	Warnings int    `json:"warnings"`
}

// Question is attached to ask_developer results.
type Question struct {
	Text string `json:"text"`
}

// FileWrite is attached to successful write_file results.
type FileWrite struct {
	Filename string `json:"filename"`
	Bytes    int    `json:"bytes"`
}

// PackageInit is attached to successful init_package results.
type PackageInit struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

// LintReport returns the attached lint report, if any.
func (r ToolResult) LintReport() (LintReport, bool) {
	lr, ok := r.Value.(LintReport)
	return lr, ok
}

// BuildReport returns the attached build report, if any.
func (r ToolResult) BuildReport() (BuildReport, bool) {
	br, ok := r.Value.(BuildReport)
	return br, ok
}

// Question returns the attached developer question, if any.
func (r ToolResult) Question() (Question, bool) {
	q, ok := r.Value.(Question)
	return q, ok
}

// ToolContext provides the execution scope handed to tool implementations.
type ToolContext struct {
	ctx            context.Context
	functionCallID string
	logger         logging.Logger
}

// NewToolContext constructs a tool context bound to ctx and a function call id.
func NewToolContext(ctx context.Context, functionCallID string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ToolContext{ctx: ctx, functionCallID: functionCallID, logger: logging.OrNoOp(logger)}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
