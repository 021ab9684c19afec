// Package agentpair provides a high-level façade that wires a persona-driven
// Developer, a tool-using Runner and the Orchestrator into ready-to-run
// sessions. Most applications interact with this package by:
//  1. Creating an AgentPair via New() with the model driving the Runner
//  2. Running autonomous scenarios (RunScenario) or human-driven design
//     sessions (Design)
//  3. Rendering the returned Outcome via Outcome.Results()
//
// All defaults are safe for local development: the Developer shares the
// Runner's model, packages are written to disk and validated with the
// configured external toolchain.
package agentpair

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/agentpair/agent"
	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/model"
	"github.com/hupe1980/agentpair/orchestrator"
	"github.com/hupe1980/agentpair/persona"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
)

// Version is the agentpair release.
const Version = "0.1.0"

// DefaultDomain is used when a scenario names no domain.
const DefaultDomain = "aws"

// ErrNoModel is returned by New when no Runner model is configured.
var ErrNoModel = errors.New("agentpair: runner model is required")

// Options configures an AgentPair.
type Options struct {
	// RunnerModel drives the Runner. Required.
	RunnerModel model.Model
	// DeveloperModel drives AI Developers; defaults to RunnerModel.
	DeveloperModel model.Model
	// Toolchain validates packages; defaults to toolchain.NewExecToolchain().
	Toolchain toolchain.Toolchain
	// Store persists package files; defaults to the file system.
	Store core.ArtifactStore
	// Layout recognizes existing packages for design sessions.
	Layout workspace.Layout
	// Observer receives Runner progress.
	Observer agent.Observer
	// Stream requests streamed Runner output.
	Stream    bool
	Evaluator evaluation.Evaluator
	Prompts   orchestrator.InteractivePrompts
	Logger    logging.Logger
}

// AgentPair is the high-level façade over agents and orchestrator.
type AgentPair struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates an AgentPair.
func New(optFns ...func(o *Options)) (*AgentPair, error) {
	opts := Options{
		Layout:    workspace.DefaultLayout(),
		Evaluator: evaluation.NewOutcomeEvaluator(),
		Prompts:   orchestrator.DefaultInteractivePrompts(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.RunnerModel == nil {
		return nil, ErrNoModel
	}

	if opts.DeveloperModel == nil {
		opts.DeveloperModel = opts.RunnerModel
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	if opts.Toolchain == nil {
		opts.Toolchain = toolchain.NewExecToolchain(func(o *toolchain.Options) { o.Logger = opts.Logger })
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Logger = opts.Logger
		o.Evaluator = opts.Evaluator
		o.Prompts = opts.Prompts
	})

	return &AgentPair{opts: opts, orch: orch}, nil
}

// Scenario describes an autonomous session.
type Scenario struct {
	Prompt  string
	Domain  string
	Persona persona.Persona // Zero value selects persona.Default
	// OutputDir receives the generated package.
	OutputDir            string
	MaxTurns             int
	MaxLintCycles        int
	ExpectedResources    []string
	AppropriateQuestions int
}

// RunScenario runs an AI Developer against the Runner until the session ends.
func (a *AgentPair) RunScenario(ctx context.Context, sc Scenario) (*orchestrator.Outcome, error) {
	domain := domainOrDefault(sc.Domain)

	p := sc.Persona
	if p.Name == "" {
		var err error
		if p, err = persona.Load(persona.Default); err != nil {
			return nil, err
		}
	}

	runner := a.newRunner(workspace.New(sc.OutputDir, a.storeOption("")), domain)
	developer := agent.NewDeveloper(a.opts.DeveloperModel, p, func(o *agent.DeveloperOptions) {
		o.Domain = domain
		o.Logger = a.opts.Logger
	})

	s, err := a.orch.CreateSession(domain, developer, runner, func(c *orchestrator.SessionConfig) {
		c.Persona = p.Name
		c.OutputDir = sc.OutputDir
		c.MaxTurns = sc.MaxTurns
		c.MaxLintCycles = sc.MaxLintCycles
		c.ExpectedResources = sc.ExpectedResources
		c.AppropriateQuestions = sc.AppropriateQuestions
	})
	if err != nil {
		return nil, err
	}

	return a.orch.Run(ctx, s, sc.Prompt)
}

// DesignRequest describes an interactive session.
type DesignRequest struct {
	Prompt    string
	Domain    string
	OutputDir string
	// Existing is the package detected in OutputDir; nil detects it.
	Existing *workspace.Detection
	// In and Out connect the human Developer.
	In       io.Reader
	Out      io.Writer
	MaxTurns int
}

// Detect looks for an existing package in dir using the configured layout.
func (a *AgentPair) Detect(dir string) (workspace.Detection, error) {
	return workspace.Detect(dir, a.opts.Layout)
}

// Design runs a session in which a human at In/Out plays the Developer.
func (a *AgentPair) Design(ctx context.Context, req DesignRequest) (*orchestrator.Outcome, error) {
	domain := domainOrDefault(req.Domain)

	det := workspace.Detection{}
	if req.Existing != nil {
		det = *req.Existing
	} else {
		var err error
		if det, err = a.Detect(req.OutputDir); err != nil {
			return nil, err
		}
	}

	runner := a.newRunner(workspace.New(req.OutputDir, a.storeOption(det.Package)), domain)
	human := agent.NewHumanDeveloper(req.In, req.Out)

	maxTurns := req.MaxTurns
	if maxTurns <= 0 {
		maxTurns = orchestrator.InteractiveMaxTurns
	}

	s, err := a.orch.CreateSession(domain, human, runner, func(c *orchestrator.SessionConfig) {
		c.Mode = orchestrator.ModeInteractive
		c.OutputDir = req.OutputDir
		c.MaxTurns = maxTurns
		c.ExistingPackage = det.Package
		c.ExistingFiles = det.Files
	})
	if err != nil {
		return nil, err
	}

	return a.orch.RunInteractive(ctx, s, req.Prompt)
}

func (a *AgentPair) newRunner(ws *workspace.Workspace, domain string) *agent.Runner {
	return agent.NewRunner(a.opts.RunnerModel, ws, a.opts.Toolchain, func(o *agent.RunnerOptions) {
		o.Domain = domain
		o.Stream = a.opts.Stream
		o.Observer = a.opts.Observer
		o.Logger = a.opts.Logger
	})
}

func (a *AgentPair) storeOption(existing string) func(o *workspace.Options) {
	return func(o *workspace.Options) {
		o.Store = a.opts.Store
		o.ExistingPackage = existing
	}
}

func domainOrDefault(d string) string {
	if d == "" {
		return DefaultDomain
	}
	return d
}
