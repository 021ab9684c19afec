// Package core provides the foundational domain types and interfaces shared by
// agentpair. It defines:
//
//   - Messages (the role-tagged entries of a session trace)
//   - Content / Parts (model conversation payloads and tool calls)
//   - Tool results and the typed reports tools attach to them
//   - The Developer and Runner participant contracts driven by the orchestrator
//   - The ArtifactStore contract used for generated package files
//
// Implementation concerns (model providers, subprocess toolchains, concrete
// agents) live in other packages so they can be swapped in tests.
package core
