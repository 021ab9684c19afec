package model

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/hupe1980/agentpair/core"
)

// Roles used in model conversation content.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction describes the concrete function target of a tool call.
type ToolCallFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by the agents.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt
	Contents     []core.Content   `json:"contents"`     // Conversation converted to provider messages
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Stream       bool             `json:"stream,omitempty"`
	MaxTokens    int              `json:"max_tokens,omitempty"` // 0 uses the adapter default
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a streaming model.
type Response struct {
	ID           string       `json:"id"`
	Partial      bool         `json:"partial"` // Indicates if this is a partial response
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
//
// Generate emits zero or more partial responses followed by exactly one final
// (Partial == false) response, or reports a single error. Both channels are
// closed when generation ends.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a Generate call and returns the final response. Partial
// responses are passed to onPartial when it is non-nil.
func Collect(ctx context.Context, m Model, req Request, onPartial func(Response)) (Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		final    Response
		gotFinal bool
	)

	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if r.Partial {
				if onPartial != nil {
					onPartial(r)
				}
				continue
			}
			final, gotFinal = r, true
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return Response{}, err
			}
		}
	}

	if !gotFinal {
		return Response{}, ErrNoResponse
	}

	return final, nil
}

// ErrNoResponse is returned by Collect when a model closes its channels without
// emitting a final response.
var ErrNoResponse = errors.New("model produced no response")

// ErrScriptExhausted is reported by ScriptedModel when more requests arrive
// than responses were queued.
var ErrScriptExhausted = errors.New("scripted model: no responses left")

// ScriptedModel is a deterministic in-memory Model for tests and examples. It
// answers requests with queued responses in order and records every request.
type ScriptedModel struct {
	mu        sync.Mutex
	info      Info
	responses []core.Content
	errs      []error
	requests  []Request
}

// NewScriptedModel constructs a ScriptedModel replying with responses in order.
func NewScriptedModel(responses ...core.Content) *ScriptedModel {
	return &ScriptedModel{
		info: Info{
			Name:          "scripted",
			Provider:      "scripted",
			SupportsTools: true,
		},
		responses: responses,
		errs:      make([]error, len(responses)),
	}
}

// Text queues a plain assistant text reply.
func (m *ScriptedModel) Text(text string) *ScriptedModel {
	return m.Reply(core.NewTextContent(RoleAssistant, text))
}

// Call queues an assistant reply requesting the given function calls, with
// optional leading text.
func (m *ScriptedModel) Call(text string, calls ...core.FunctionCall) *ScriptedModel {
	var parts []core.Part
	if text != "" {
		parts = append(parts, core.TextPart{Text: text})
	}
	for _, fc := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	return m.Reply(core.Content{Role: RoleAssistant, Parts: parts})
}

// Reply queues an arbitrary content reply.
func (m *ScriptedModel) Reply(c core.Content) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, c)
	m.errs = append(m.errs, nil)
	return m
}

// Fail queues an error in place of a reply.
func (m *ScriptedModel) Fail(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, core.Content{})
	m.errs = append(m.errs, err)
	return m
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Remaining reports how many queued replies have not been consumed.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

// Generate implements Model. When streaming is requested the text of the reply
// is additionally emitted as a single partial chunk.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 2)
	errCh := make(chan error, 1)

	m.mu.Lock()
	req.Contents = append([]core.Content(nil), req.Contents...)
	m.requests = append(m.requests, req)

	var (
		next core.Content
		err  error
	)

	if len(m.responses) == 0 {
		err = ErrScriptExhausted
	} else {
		next, err = m.responses[0], m.errs[0]
		m.responses, m.errs = m.responses[1:], m.errs[1:]
	}
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if err != nil {
			errCh <- err
			return
		}

		if ctx.Err() != nil {
			errCh <- ctx.Err()
			return
		}

		if req.Stream {
			if text := next.Text(); text != "" {
				respCh <- Response{
					Partial: true,
					Content: core.NewTextContent(RoleAssistant, text),
				}
			}
		}

		finish := "stop"
		if len(next.FunctionCalls()) > 0 {
			finish = "tool_calls"
		}

		respCh <- Response{
			ID:           core.NewID(),
			Content:      next,
			FinishReason: finish,
		}
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }
