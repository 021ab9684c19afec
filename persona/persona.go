// Package persona holds the Developer personas used to exercise a Runner.
//
// Each persona tests a different Runner capability:
//
//   - beginner: vague requirements, defers to suggestions
//   - intermediate: mixed clarity, asks clarifying questions
//   - expert: precise requirements, corrects mistakes
//   - terse: minimal responses ("yes", "no")
//   - verbose: over-explains, adds tangents
package persona

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownPersona is returned by Load for names that are not built in.
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrInvalidPersona is returned by LoadFile for malformed persona files.
	ErrInvalidPersona = errors.New("invalid persona file")
)

// Persona configures the behavior of an AI Developer.
type Persona struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	SystemPrompt string   `json:"system_prompt" yaml:"-"`
	Traits       []string `json:"traits" yaml:"traits"`
}

var builtins = []Persona{
	{
		Name:        "beginner",
		Description: "Vague requirements, defers to suggestions",
		SystemPrompt: "You are a beginner user who is new to infrastructure. " +
			"You have vague requirements and often defer to suggestions. " +
			"You may not know the right terminology.",
		Traits: []string{"vague", "deferential", "inexperienced"},
	},
	{
		Name:        "intermediate",
		Description: "Mixed clarity, asks clarifying questions",
		SystemPrompt: "You are an intermediate user with some infrastructure experience. " +
			"You have generally clear requirements but may need to clarify some details. " +
			"You ask clarifying questions when unsure.",
		Traits: []string{"generally_clear", "inquisitive", "collaborative"},
	},
	{
		Name:        "expert",
		Description: "Precise requirements, corrects mistakes",
		SystemPrompt: "You are an expert user with deep infrastructure knowledge. " +
			"You have precise requirements and will correct the Runner's mistakes. " +
			"You expect high-quality output and will push back on suboptimal solutions.",
		Traits: []string{"precise", "demanding", "knowledgeable"},
	},
	{
		Name:        "terse",
		Description: "Minimal responses",
		SystemPrompt: "You are a terse user who gives minimal responses. " +
			"You answer questions with 'yes', 'no', or very brief phrases. " +
			"You don't elaborate unless absolutely necessary.",
		Traits: []string{"minimal", "brief", "unelaborative"},
	},
	{
		Name:        "verbose",
		Description: "Over-explains, adds tangents",
		SystemPrompt: "You are a verbose user who over-explains everything. " +
			"You add tangents and extra context that may not be relevant. " +
			"The Runner must filter signal from noise.",
		Traits: []string{"wordy", "tangential", "detailed"},
	},
}

// Default is the persona used when none is selected.
const Default = "intermediate"

// Names returns the built-in persona names in canonical order.
func Names() []string {
	names := make([]string, len(builtins))
	for i, p := range builtins {
		names[i] = p.Name
	}
	return names
}

// All returns copies of the built-in personas in canonical order.
func All() []Persona {
	out := make([]Persona, len(builtins))
	for i, p := range builtins {
		out[i] = p.clone()
	}
	return out
}

// Load returns the built-in persona called name.
func Load(name string) (Persona, error) {
	for _, p := range builtins {
		if p.Name == name {
			return p.clone(), nil
		}
	}
	return Persona{}, fmt.Errorf("%w '%s'. Valid: %s", ErrUnknownPersona, name, strings.Join(Names(), ", "))
}

// LoadFile reads a custom persona from a Markdown file with YAML frontmatter:
//
//	---
//	name: reviewer
//	description: Nitpicks naming
//	traits: [picky]
//	---
//	You are a meticulous reviewer...
//
// The body after the frontmatter becomes the system prompt.
func LoadFile(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("read persona %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes persona file content. See LoadFile for the format.
func Parse(data []byte) (Persona, error) {
	front, body, ok := splitFrontmatter(data)
	if !ok {
		return Persona{}, fmt.Errorf("%w: missing frontmatter", ErrInvalidPersona)
	}

	var p Persona
	if err := yaml.Unmarshal(front, &p); err != nil {
		return Persona{}, fmt.Errorf("%w: %v", ErrInvalidPersona, err)
	}

	if strings.TrimSpace(p.Name) == "" {
		return Persona{}, fmt.Errorf("%w: name is required", ErrInvalidPersona)
	}

	p.SystemPrompt = strings.TrimSpace(string(body))
	if p.SystemPrompt == "" {
		return Persona{}, fmt.Errorf("%w: empty system prompt", ErrInvalidPersona)
	}

	return p, nil
}

var delimiter = []byte("---")

func splitFrontmatter(data []byte) (front, body []byte, ok bool) {
	data = bytes.TrimLeft(data, "\ufeff \t\r\n")
	if !bytes.HasPrefix(data, delimiter) {
		return nil, nil, false
	}

	rest := data[len(delimiter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, nil, false
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), delimiter) {
			return rest[:offset], rest[next:], true
		}
		offset = next
	}

	return nil, nil, false
}

func (p Persona) clone() Persona {
	p.Traits = append([]string(nil), p.Traits...)
	return p
}
