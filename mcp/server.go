// Package mcp exposes the Runner's workspace tools over the Model Context
// Protocol so external assistants can drive package generation directly.
// ask_developer is not exposed; the calling assistant talks to its user.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hupe1980/agentpair/agent"
	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/tool"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
)

// DebugEnv enables debug logging for the server when set to 1, true or yes.
const DebugEnv = "AGENTPAIR_MCP_DEBUG"

// Options configures a Server.
type Options struct {
	Name    string
	Version string
	Logger  logging.Logger
}

// Server serves workspace tools over MCP.
type Server struct {
	registry  *tool.Registry
	mcpServer *server.MCPServer
	logger    logging.Logger
}

// NewServer creates a server whose tools operate on ws through tc.
func NewServer(ws *workspace.Workspace, tc toolchain.Toolchain, optFns ...func(o *Options)) (*Server, error) {
	opts := Options{
		Name:    "agentpair",
		Version: "dev",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		registry:  tool.NewRegistry(agent.WorkspaceTools(ws, tc)...),
		mcpServer: server.NewMCPServer(opts.Name, opts.Version, server.WithToolCapabilities(false)),
		logger:    logging.OrNoOp(opts.Logger),
	}

	if err := s.registerTools(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) registerTools() error {
	for _, t := range s.registry.Tools() {
		schema, err := json.Marshal(t.Parameters())
		if err != nil {
			return fmt.Errorf("marshal schema for %s: %w", t.Name(), err)
		}

		s.mcpServer.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), s.handler(t.Name()))
		s.logger.Debug("mcp.tool.registered", "tool", t.Name())
	}

	return nil
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := s.Call(ctx, name, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if res.IsError {
			return mcp.NewToolResultError(res.Content), nil
		}

		return mcp.NewToolResultText(res.Content), nil
	}
}

// Tools returns the names of the exposed tools.
func (s *Server) Tools() []string { return s.registry.Names() }

// Call executes the named tool with args.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (core.ToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return core.ToolResult{}, fmt.Errorf("marshal arguments: %w", err)
	}

	s.logger.Debug("mcp.tool.call", "tool", name)

	return agent.ExecuteCall(ctx, s.registry, s.logger, core.FunctionCall{Name: name, Arguments: string(raw)}), nil
}

// ServeStdio serves on stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp.server.start", "transport", "stdio", "tools", strings.Join(s.Tools(), ","))
	return server.ServeStdio(s.mcpServer)
}

// DebugEnabled reports whether DebugEnv requests debug logging.
func DebugEnabled() bool {
	switch strings.ToLower(os.Getenv(DebugEnv)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// InstallInstructions returns the MCP client configuration snippet for pkg.
func InstallInstructions(pkg string) string {
	return fmt.Sprintf(`To use %[1]s as an MCP server, add the following to your MCP configuration:

{
  "mcpServers": {
    "%[1]s": {
      "command": "%[1]s",
      "args": ["mcp"]
    }
  }
}

Or if installed with go install:

{
  "mcpServers": {
    "%[1]s": {
      "command": "go",
      "args": ["run", "github.com/hupe1980/agentpair/cmd/agentpair@latest", "mcp"]
    }
  }
}
`, pkg)
}
