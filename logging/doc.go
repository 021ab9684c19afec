// Package logging provides a minimal logging interface and adapters for agentpair.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the orchestrator, agents and tools use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping a sugared zap logger
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.Config{Level: logging.LogLevelDebug, Format: "json"})
//	orch := orchestrator.New(func(o *orchestrator.Options) { o.Logger = logger })
//
// The interface is kept minimal to avoid vendor lock-in while supporting
// structured logging where available.
package logging
