package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/model"
	"github.com/hupe1980/agentpair/persona"
)

// DeveloperOptions configures a Developer.
type DeveloperOptions struct {
	Domain      string
	Instruction Instruction // Overrides the persona derived system prompt
	MaxTokens   int
	Logger      logging.Logger
}

// Developer is a model simulating a developer with a persona. It keeps its own
// conversation: Runner messages are its user turns.
type Developer struct {
	llm          model.Model
	persona      persona.Persona
	instruction  Instruction
	maxTokens    int
	logger       logging.Logger
	conversation []core.Content
}

// NewDeveloper creates a Developer for persona p.
func NewDeveloper(llm model.Model, p persona.Persona, optFns ...func(o *DeveloperOptions)) *Developer {
	opts := DeveloperOptions{
		Domain:    "aws",
		MaxTokens: 500,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Instruction.IsZero() {
		opts.Instruction = NewInstructionFromTemplate(DeveloperSystemPrompt, DeveloperPromptData{
			Domain:              opts.Domain,
			PersonaInstructions: p.SystemPrompt,
		})
	}

	return &Developer{
		llm:         llm,
		persona:     p,
		instruction: opts.Instruction,
		maxTokens:   opts.MaxTokens,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Persona returns the developer's persona.
func (d *Developer) Persona() persona.Persona { return d.persona }

// SystemPrompt renders the developer's system prompt.
func (d *Developer) SystemPrompt() (string, error) { return d.instruction.Resolve() }

// Conversation returns a copy of the developer's conversation.
func (d *Developer) Conversation() []core.Content {
	return append([]core.Content(nil), d.conversation...)
}

// Respond returns the developer's reply to a Runner message.
func (d *Developer) Respond(ctx context.Context, message string) (string, error) {
	system, err := d.instruction.Resolve()
	if err != nil {
		return "", fmt.Errorf("developer instruction: %w", err)
	}

	d.conversation = append(d.conversation, core.NewTextContent(model.RoleUser, message))

	start := time.Now()
	resp, err := model.Collect(ctx, d.llm, model.Request{
		Instructions: system,
		Contents:     d.conversation,
		MaxTokens:    d.maxTokens,
	}, nil)
	logging.LogLLMCall(d.logger, d.llm.Info().Name, usageTokens(resp.Usage), time.Since(start), err)

	if err != nil {
		d.conversation = d.conversation[:len(d.conversation)-1]
		return "", fmt.Errorf("developer respond: %w", err)
	}

	reply := strings.TrimSpace(resp.Content.Text())
	d.conversation = append(d.conversation, core.NewTextContent(model.RoleAssistant, reply))

	d.logger.Debug("developer.respond", "persona", d.persona.Name, "reply_len", len(reply))

	return reply, nil
}

func usageTokens(u *model.TokenUsage) int {
	if u == nil {
		return 0
	}
	return u.TotalTokens
}
