package orchestrator

import (
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/results"
)

// Mode selects how the Developer takes part in a session.
type Mode string

// Session modes.
const (
	ModeAutonomous  Mode = "autonomous"
	ModeInteractive Mode = "interactive"
)

// Defaults applied by DefaultSessionConfig.
const (
	DefaultMaxLintCycles = 3
	DefaultMaxTurns      = 10
)

// SessionConfig configures a session.
type SessionConfig struct {
	Domain               string
	Persona              string
	MaxLintCycles        int
	MaxTurns             int
	OutputDir            string
	Mode                 Mode
	ExpectedResources    []string
	AppropriateQuestions int
	ExistingPackage      string   // Interactive sessions editing a detected package
	ExistingFiles        []string // Source files of the existing package
}

// DefaultSessionConfig returns the configuration for domain with default budgets.
func DefaultSessionConfig(domain string) SessionConfig {
	return SessionConfig{
		Domain:        domain,
		MaxLintCycles: DefaultMaxLintCycles,
		MaxTurns:      DefaultMaxTurns,
		Mode:          ModeAutonomous,
	}
}

// Session is the state of one Developer/Runner conversation.
type Session struct {
	ID         string
	Config     SessionConfig
	Developer  core.Developer
	Runner     core.Runner
	Messages   []core.Message
	LintCycles []results.LintCycle
	Complete   bool
	Score      *evaluation.Score
	StartedAt  time.Time
}

// AddMessage appends a trace entry.
func (s *Session) AddMessage(role core.Role, content string) {
	s.Messages = append(s.Messages, core.NewMessage(role, content))
}

// Trace returns a copy of the session messages.
func (s *Session) Trace() []core.Message {
	return append([]core.Message(nil), s.Messages...)
}
