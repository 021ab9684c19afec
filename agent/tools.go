package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agentpair/artifact"
	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/tool"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
)

// Tool result messages shared with the orchestrator and MCP server.
const (
	MsgInitFirst    = "Error: Must init_package first"
	MsgNoPackage    = "Error: No package initialized"
	MsgLintPassed   = "Lint passed with no issues"
	QuestionPrefix  = "QUESTION:"
	unknownToolText = "Unknown tool: %s"
)

type initPackageArgs struct {
	PackageName string `json:"package_name" description:"Name for the package (snake_case, e.g., 'log_bucket')"`
	Description string `json:"description,omitempty" description:"Brief description of what this package creates"`
}

type writeFileArgs struct {
	Filename string `json:"filename" description:"Filename (e.g., 'storage.py', 'compute.py')"`
	Content  string `json:"content" description:"File content"`
}

type readFileArgs struct {
	Filename string `json:"filename" description:"Filename to read (e.g., 'resources.py', 'network.py')"`
}

type askDeveloperArgs struct {
	Question string `json:"question" description:"The question to ask the developer"`
}

type noArgs struct{}

// WorkspaceTools returns the package tools operating on ws through tc, in the
// order they are presented to the model: init_package, write_file, read_file,
// run_lint, run_build.
func WorkspaceTools(ws *workspace.Workspace, tc toolchain.Toolchain) []tool.Tool {
	return []tool.Tool{
		tool.NewFunctionToolFromStruct(
			core.ToolInitPackage,
			"Initialize a new package. Creates the package directory and its __init__.py with setup_resources().",
			initPackageArgs{},
			func(tc2 *core.ToolContext, args map[string]any) (any, error) {
				return initPackage(tc2, ws, tc, args), nil
			},
		),
		tool.NewFunctionToolFromStruct(
			core.ToolWriteFile,
			"Write a source file to the package. Use for resource definitions.",
			writeFileArgs{},
			func(_ *core.ToolContext, args map[string]any) (any, error) {
				return writeFile(ws, args), nil
			},
		),
		tool.NewFunctionToolFromStruct(
			core.ToolReadFile,
			"Read a file from the package to see its current contents.",
			readFileArgs{},
			func(_ *core.ToolContext, args map[string]any) (any, error) {
				return readFile(ws, args), nil
			},
		),
		tool.NewFunctionToolFromStruct(
			core.ToolRunLint,
			"Run the linter on the package to check for issues.",
			noArgs{},
			func(tc2 *core.ToolContext, _ map[string]any) (any, error) {
				return runLint(tc2, ws, tc), nil
			},
		),
		tool.NewFunctionToolFromStruct(
			core.ToolRunBuild,
			"Run the build to generate the deployment template.",
			noArgs{},
			func(tc2 *core.ToolContext, _ map[string]any) (any, error) {
				return runBuild(tc2, ws, tc), nil
			},
		),
	}
}

// AskDeveloperTool returns the tool the Runner uses to ask a clarifying question.
func AskDeveloperTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		core.ToolAskDeveloper,
		"Ask the developer a clarifying question. Use sparingly.",
		askDeveloperArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			q := strings.TrimSpace(stringArg(args, "question"))
			return core.ToolResult{
				Content: QuestionPrefix + " " + q,
				Value:   core.Question{Text: q},
			}, nil
		},
	)
}

func initPackage(tc *core.ToolContext, ws *workspace.Workspace, chain toolchain.Toolchain, args map[string]any) core.ToolResult {
	name := strings.TrimSpace(stringArg(args, "package_name"))
	if err := workspace.ValidateFilename(name); err != nil {
		return errorResult(fmt.Sprintf("Failed to create package: %v", err))
	}

	description := stringArg(args, "description")
	if description == "" {
		description = name + " infrastructure"
	}

	_, err := chain.Init(tc.Context(), toolchain.InitRequest{
		Package:     name,
		OutputDir:   ws.OutputDir(),
		Description: description,
	})
	if err != nil {
		var cmdErr *toolchain.CommandError
		if errors.As(err, &cmdErr) {
			return errorResult("Failed to create package: " + cmdErr.Stderr)
		}
		return errorResult(fmt.Sprintf("Failed to create package: %v", err))
	}

	if err := ws.SetPackage(name); err != nil {
		return errorResult(fmt.Sprintf("Failed to create package: %v", err))
	}

	return core.ToolResult{
		Content: fmt.Sprintf("Created package '%s' at %s", name, ws.PackageDir()),
		Value:   core.PackageInit{Name: name, Dir: ws.PackageDir()},
	}
}

func writeFile(ws *workspace.Workspace, args map[string]any) core.ToolResult {
	if !ws.HasPackage() {
		return errorResult(MsgInitFirst)
	}

	filename := stringArg(args, "filename")
	content := stringArg(args, "content")

	n, err := ws.WriteFile(filename, content)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err))
	}

	return core.ToolResult{
		Content: fmt.Sprintf("Wrote %s (%d bytes)", filename, n),
		Value:   core.FileWrite{Filename: filename, Bytes: n},
	}
}

func readFile(ws *workspace.Workspace, args map[string]any) core.ToolResult {
	if !ws.HasPackage() {
		return errorResult(MsgNoPackage)
	}

	filename := stringArg(args, "filename")

	content, err := ws.ReadFile(filename)
	switch {
	case errors.Is(err, artifact.ErrNotFound):
		return errorResult("File not found: " + filename)
	case err != nil:
		return errorResult(fmt.Sprintf("Error: %v", err))
	}

	return core.ToolResult{Content: fmt.Sprintf("Contents of %s:\n\n%s", filename, content)}
}

func runLint(tc *core.ToolContext, ws *workspace.Workspace, chain toolchain.Toolchain) core.ToolResult {
	if !ws.HasPackage() {
		return errorResult(MsgInitFirst)
	}

	report, err := chain.Lint(tc.Context(), ws.PackageDir())
	if err != nil {
		failed := core.LintReport{Passed: false, Issues: []string{err.Error()}, Output: err.Error()}
		return core.ToolResult{Content: "Lint failed to run: " + err.Error(), IsError: true, Value: failed}
	}

	if report.Passed {
		return core.ToolResult{Content: MsgLintPassed, Value: report}
	}

	return core.ToolResult{Content: "Lint found issues:\n" + report.Output, Value: report}
}

func runBuild(tc *core.ToolContext, ws *workspace.Workspace, chain toolchain.Toolchain) core.ToolResult {
	if !ws.HasPackage() {
		return errorResult(MsgInitFirst)
	}

	report, err := chain.Build(tc.Context(), toolchain.BuildRequest{
		Package:   ws.PackageName(),
		Dir:       ws.PackageDir(),
		OutputDir: ws.OutputDir(),
		ParentDir: ws.ImportRoot(),
	})
	if err != nil {
		return core.ToolResult{
			Content: "Build failed:\n" + err.Error(),
			IsError: true,
			Value:   core.BuildReport{OK: false, Output: err.Error()},
		}
	}

	if !report.OK {
		return core.ToolResult{Content: "Build failed:\n" + report.Output, IsError: true, Value: report}
	}

	return core.ToolResult{Content: "Build successful. Output:\n" + report.Output, Value: report}
}

// ExecuteCall runs fc against reg and normalizes the outcome into a
// ToolResult. Tool errors become error results with the text the model sees.
func ExecuteCall(ctx context.Context, reg *tool.Registry, logger logging.Logger, fc core.FunctionCall) core.ToolResult {
	logger = logging.OrNoOp(logger)

	callID := fc.ID
	if callID == "" {
		callID = core.NewID()
	}

	out, err := reg.Execute(core.NewToolContext(ctx, callID, logger), fc.Name, fc.Arguments)

	var result core.ToolResult

	switch res, ok := out.(core.ToolResult); {
	case err != nil:
		result = toolErrorResult(fc.Name, err)
	case ok:
		result = res
	default:
		result = errorResult(fmt.Sprintf("Error: unexpected result %T", out))
	}

	result.CallID = callID
	result.Name = fc.Name

	if result.IsError {
		logger.Warn("runner.tool.error", "tool", fc.Name, "content", result.Content)
	}

	return result
}

func errorResult(content string) core.ToolResult {
	return core.ToolResult{Content: content, IsError: true}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// toolErrorResult converts a tool execution error into a result fed back to
// the model.
func toolErrorResult(name string, err error) core.ToolResult {
	var te *tool.ToolError
	if errors.As(err, &te) {
		if te.Code == tool.CodeUnknownTool {
			return errorResult(fmt.Sprintf(unknownToolText, name))
		}
		return errorResult("Error: " + te.Message)
	}
	return errorResult("Error: " + err.Error())
}
