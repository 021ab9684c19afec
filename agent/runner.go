package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/model"
	"github.com/hupe1980/agentpair/tool"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
)

// ContinueMessage is sent when a turn has no message and the model spoke last.
const ContinueMessage = "Continue."

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Domain      string
	Instruction Instruction // Overrides the domain system prompt
	MaxTokens   int
	Stream      bool
	Observer    Observer
	Logger      logging.Logger
}

// Runner is the tool calling agent that builds a package.
type Runner struct {
	llm          model.Model
	ws           *workspace.Workspace
	registry     *tool.Registry
	instruction  Instruction
	maxTokens    int
	stream       bool
	observer     Observer
	logger       logging.Logger
	conversation []core.Content
}

// NewRunner creates a Runner editing ws and validating through tc.
func NewRunner(llm model.Model, ws *workspace.Workspace, tc toolchain.Toolchain, optFns ...func(o *RunnerOptions)) *Runner {
	opts := RunnerOptions{
		Domain:    "aws",
		MaxTokens: 4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Instruction.IsZero() {
		opts.Instruction = NewInstructionFromTemplate(RunnerSystemPrompt, RunnerPromptData{Domain: opts.Domain})
	}

	if opts.Observer == nil {
		opts.Observer = ObserverFuncs{}
	}

	registry := tool.NewRegistry(WorkspaceTools(ws, tc)...)
	registry.Register(AskDeveloperTool())

	return &Runner{
		llm:         llm,
		ws:          ws,
		registry:    registry,
		instruction: opts.Instruction,
		maxTokens:   opts.MaxTokens,
		stream:      opts.Stream,
		observer:    opts.Observer,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// PackageName implements core.Runner.
func (r *Runner) PackageName() string { return r.ws.PackageName() }

// PackageDir implements core.Runner.
func (r *Runner) PackageDir() string { return r.ws.PackageDir() }

// Files returns the generated package files keyed by name.
func (r *Runner) Files() (map[string]string, error) { return r.ws.Files() }

// Workspace returns the runner's workspace.
func (r *Runner) Workspace() *workspace.Workspace { return r.ws }

// Registry returns the runner's tool registry.
func (r *Runner) Registry() *tool.Registry { return r.registry }

// SetObserver replaces the progress observer.
func (r *Runner) SetObserver(o Observer) {
	if o == nil {
		o = ObserverFuncs{}
	}
	r.observer = o
}

// Conversation returns a copy of the runner's model conversation.
func (r *Runner) Conversation() []core.Content {
	return append([]core.Content(nil), r.conversation...)
}

// RunTurn sends message (when non-empty) to the model, executes every tool it
// requests in order and appends the tool results to the conversation so the
// next turn can continue from them.
func (r *Runner) RunTurn(ctx context.Context, message string) (core.Turn, error) {
	system, err := r.instruction.Resolve()
	if err != nil {
		return core.Turn{}, fmt.Errorf("runner instruction: %w", err)
	}

	switch {
	case message != "":
		r.conversation = append(r.conversation, core.NewTextContent(model.RoleUser, message))
	case len(r.conversation) == 0 || r.conversation[len(r.conversation)-1].Role == model.RoleAssistant:
		r.conversation = append(r.conversation, core.NewTextContent(model.RoleUser, ContinueMessage))
	}

	start := time.Now()
	resp, err := model.Collect(ctx, r.llm, model.Request{
		Instructions: system,
		Contents:     r.conversation,
		Tools:        r.registry.Definitions(),
		Stream:       r.stream,
		MaxTokens:    r.maxTokens,
	}, func(p model.Response) {
		if text := p.Content.Text(); text != "" {
			r.observer.OnText(text)
		}
	})
	logging.LogLLMCall(r.logger, r.llm.Info().Name, usageTokens(resp.Usage), time.Since(start), err)

	if err != nil {
		return core.Turn{}, fmt.Errorf("runner turn: %w", err)
	}

	reply := resp.Content
	reply.Role = model.RoleAssistant
	r.conversation = append(r.conversation, reply)

	if !r.stream {
		if text := reply.Text(); text != "" {
			r.observer.OnText(text)
		}
	}

	turn := core.Turn{Text: reply.Text()}

	calls := reply.FunctionCalls()
	if len(calls) == 0 {
		return turn, nil
	}

	parts := make([]core.Part, 0, len(calls))

	for _, fc := range calls {
		r.observer.OnToolStart(fc.Name, fc.Arguments)

		result := r.execute(ctx, fc)
		turn.Results = append(turn.Results, result)

		r.observer.OnToolEnd(fc.Name, result)

		parts = append(parts, core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID:       fc.ID,
			Name:     fc.Name,
			Response: result.Content,
			IsError:  result.IsError,
		}})
	}

	r.conversation = append(r.conversation, core.Content{Role: model.RoleTool, Parts: parts})

	return turn, nil
}

func (r *Runner) execute(ctx context.Context, fc core.FunctionCall) core.ToolResult {
	return ExecuteCall(ctx, r.registry, r.logger, fc)
}
