package agent

import "github.com/hupe1980/agentpair/internal/util"

// Instruction is a system prompt template rendered against data on every
// Resolve. Without data the text is returned as is.
type Instruction struct {
	text string
	data any
}

// NewInstructionFromTemplate creates an Instruction rendered from a
// text/template against data.
func NewInstructionFromTemplate(tmpl string, data any) Instruction {
	return Instruction{text: tmpl, data: data}
}

// IsZero reports whether the instruction is empty.
func (i Instruction) IsZero() bool { return i.text == "" }

// Resolve returns the instruction text.
func (i Instruction) Resolve() (string, error) {
	if i.data == nil {
		return i.text, nil
	}
	return util.RenderTemplate(i.text, i.data)
}
