package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentpair/agent"
	"github.com/hupe1980/agentpair/artifact"
	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
)

type stubToolchain struct {
	lint core.LintReport
}

func (stubToolchain) Init(context.Context, toolchain.InitRequest) (string, error) { return "", nil }

func (s stubToolchain) Lint(context.Context, string) (core.LintReport, error) { return s.lint, nil }

func (stubToolchain) Build(context.Context, toolchain.BuildRequest) (core.BuildReport, error) {
	return core.BuildReport{OK: true, Output: "{}"}, nil
}

func newServer(t *testing.T) *Server {
	t.Helper()
	ws := workspace.New("/out", func(o *workspace.Options) { o.Store = artifact.NewInMemoryStore() })
	s, err := NewServer(ws, stubToolchain{lint: core.LintReport{Passed: true}})
	require.NoError(t, err)
	return s
}

func TestServer_Tools(t *testing.T) {
	s := newServer(t)
	assert.Equal(t, []string{
		core.ToolInitPackage,
		core.ToolWriteFile,
		core.ToolReadFile,
		core.ToolRunLint,
		core.ToolRunBuild,
	}, s.Tools())
	assert.NotContains(t, s.Tools(), core.ToolAskDeveloper)
}

func TestServer_Call(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.Call(ctx, core.ToolWriteFile, map[string]any{"filename": "main.py", "content": "x"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, agent.MsgInitFirst, res.Content)

	res, err = s.Call(ctx, core.ToolInitPackage, map[string]any{"package_name": "buckets"})
	require.NoError(t, err)
	assert.False(t, res.IsError, res.Content)

	res, err = s.Call(ctx, core.ToolWriteFile, map[string]any{"filename": "main.py", "content": "x"})
	require.NoError(t, err)
	assert.Equal(t, "Wrote main.py (1 bytes)", res.Content)

	res, err = s.Call(ctx, core.ToolRunLint, nil)
	require.NoError(t, err)
	assert.Equal(t, agent.MsgLintPassed, res.Content)

	res, err = s.Call(ctx, core.ToolAskDeveloper, map[string]any{"question": "?"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "Unknown tool")
}

func TestServer_Handler(t *testing.T) {
	s := newServer(t)

	var req mcp.CallToolRequest
	req.Params.Name = core.ToolReadFile
	req.Params.Arguments = map[string]any{"filename": "main.py"}

	res, err := s.handler(core.ToolReadFile)(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, agent.MsgNoPackage, text.Text)
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "")
	assert.False(t, DebugEnabled())
	t.Setenv(DebugEnv, "TRUE")
	assert.True(t, DebugEnabled())
}

func TestInstallInstructions(t *testing.T) {
	text := InstallInstructions("wetwire-aws")
	assert.Contains(t, text, `"wetwire-aws": {`)
	assert.Contains(t, text, "mcpServers")
}
