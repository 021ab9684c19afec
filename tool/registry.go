package tool

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/model"
)

// Registry holds tools in registration order. Order matters because it is the
// order the model sees tool definitions in.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry pre-populated with tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	r.Register(tools...)
	return r
}

// Register adds tools, replacing any existing tool with the same name.
func (r *Registry) Register(tools ...Tool) {
	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; !exists {
			r.order = append(r.order, t.Name())
		}
		r.tools[t.Name()] = t
	}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Definitions converts the registry into model tool definitions.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, t := range r.Tools() {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Execute decodes JSON arguments and invokes the named tool. Unknown tools and
// malformed arguments are reported as *ToolError.
func (r *Registry) Execute(toolCtx *core.ToolContext, name, args string) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, NewToolError(name, fmt.Sprintf("Unknown tool: %s", name), CodeUnknownTool)
	}

	argsMap := map[string]any{}
	if strings.TrimSpace(args) != "" {
		if err := json.Unmarshal([]byte(args), &argsMap); err != nil {
			return nil, NewToolError(name, fmt.Sprintf("failed to unmarshal args: %v", err), CodeBadArgs)
		}
	}

	start := time.Now()
	result, err := t.Call(toolCtx, argsMap)
	logging.LogToolCall(toolCtx.Logger(), name, time.Since(start), err)
	return result, err
}
