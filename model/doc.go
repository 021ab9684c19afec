// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside agentpair.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition, ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic tests (ScriptedModel)
//
// Providers (Anthropic, OpenAI) implement the Model interface from this
// package so the Developer and Runner agents remain decoupled from vendor SDKs.
package model
