package agent

import "github.com/hupe1980/agentpair/core"

// Observer receives Runner progress while a turn executes.
type Observer interface {
	// OnText is called with streamed text chunks.
	OnText(chunk string)
	// OnToolStart is called before a tool executes with its JSON arguments.
	OnToolStart(name, args string)
	// OnToolEnd is called with the tool's result.
	OnToolEnd(name string, result core.ToolResult)
}

// ObserverFuncs adapts optional callbacks to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Text      func(chunk string)
	ToolStart func(name, args string)
	ToolEnd   func(name string, result core.ToolResult)
}

// OnText implements Observer.
func (o ObserverFuncs) OnText(chunk string) {
	if o.Text != nil {
		o.Text(chunk)
	}
}

// OnToolStart implements Observer.
func (o ObserverFuncs) OnToolStart(name, args string) {
	if o.ToolStart != nil {
		o.ToolStart(name, args)
	}
}

// OnToolEnd implements Observer.
func (o ObserverFuncs) OnToolEnd(name string, result core.ToolResult) {
	if o.ToolEnd != nil {
		o.ToolEnd(name, result)
	}
}
