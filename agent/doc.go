// Package agent contains the two participants of a pairing session:
//
//  1. Developer: a persona driven model that issues requirements and answers
//     questions (HumanDeveloper puts a person at the terminal instead)
//  2. Runner: a tool calling model that generates a package, lints and builds
//     it through a toolchain
//
// Both satisfy the small interfaces in package core so the orchestrator never
// depends on model or tool details. Prompts are Instructions rendered with
// text/template.
package agent
