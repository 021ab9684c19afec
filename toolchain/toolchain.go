// Package toolchain invokes the external init, lint and build commands that
// validate Runner generated packages.
package toolchain

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentpair/core"
)

// CommandData holds the values available to command and env templates.
type CommandData struct {
	Package     string // Package name
	Dir         string // Package directory
	OutputDir   string // Directory new packages are created in
	ParentDir   string // Import root for builds (parent of Dir for existing packages)
	Description string // Package description passed to init
}

// InitRequest describes a package to scaffold.
type InitRequest struct {
	Package     string
	OutputDir   string
	Description string
}

// BuildRequest describes a package to build.
type BuildRequest struct {
	Package   string
	Dir       string
	OutputDir string
	ParentDir string
}

// Toolchain runs the domain tools against a package. Tool level failures
// (non-zero exits) are reported in the returned values; errors are reserved
// for commands that could not run at all.
type Toolchain interface {
	Init(ctx context.Context, req InitRequest) (string, error)
	Lint(ctx context.Context, dir string) (core.LintReport, error)
	Build(ctx context.Context, req BuildRequest) (core.BuildReport, error)
}

// CommandError reports a command that ran but exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
}
