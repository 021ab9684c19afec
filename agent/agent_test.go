package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/agentpair/artifact"
	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/model"
	"github.com/hupe1980/agentpair/persona"
	"github.com/hupe1980/agentpair/toolchain"
	"github.com/hupe1980/agentpair/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockToolchain struct {
	mock.Mock
}

func (m *mockToolchain) Init(ctx context.Context, req toolchain.InitRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockToolchain) Lint(ctx context.Context, dir string) (core.LintReport, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).(core.LintReport), args.Error(1)
}

func (m *mockToolchain) Build(ctx context.Context, req toolchain.BuildRequest) (core.BuildReport, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(core.BuildReport), args.Error(1)
}

func call(id, name, args string) core.FunctionCall {
	return core.FunctionCall{ID: id, Name: name, Arguments: args}
}

func newTestRunner(llm model.Model, tc toolchain.Toolchain, optFns ...func(o *RunnerOptions)) *Runner {
	ws := workspace.New("/out", func(o *workspace.Options) { o.Store = artifact.NewInMemoryStore() })
	return NewRunner(llm, ws, tc, optFns...)
}

func TestRunner_ToolsBeforeInit(t *testing.T) {
	llm := model.NewScriptedModel().Call("",
		call("1", core.ToolWriteFile, `{"filename":"a.py","content":"x"}`),
		call("2", core.ToolReadFile, `{"filename":"a.py"}`),
		call("3", core.ToolRunLint, `{}`),
		call("4", core.ToolRunBuild, `{}`),
		call("5", "deploy", `{}`),
	)
	r := newTestRunner(llm, &mockToolchain{})

	turn, err := r.RunTurn(context.Background(), "make a bucket")
	require.NoError(t, err)
	require.Len(t, turn.Results, 5)

	want := []string{
		MsgInitFirst,
		MsgNoPackage,
		MsgInitFirst,
		MsgInitFirst,
		"Unknown tool: deploy",
	}
	for i, res := range turn.Results {
		assert.True(t, res.IsError, res.Name)
		assert.Equal(t, want[i], res.Content, res.Name)
	}
	assert.Equal(t, "", r.PackageDir())
}

func TestRunner_FullWorkflow(t *testing.T) {
	tc := &mockToolchain{}
	tc.On("Init", mock.Anything, toolchain.InitRequest{Package: "log_bucket", OutputDir: "/out", Description: "log_bucket infrastructure"}).
		Return("", nil)
	tc.On("Lint", mock.Anything, "/out/log_bucket").
		Return(core.LintReport{Passed: true}, nil)
	tc.On("Build", mock.Anything, toolchain.BuildRequest{Package: "log_bucket", Dir: "/out/log_bucket", OutputDir: "/out", ParentDir: "/out"}).
		Return(core.BuildReport{OK: true, Output: "Resources: {}"}, nil)

	llm := model.NewScriptedModel().
		Call("Creating the package.",
			call("1", core.ToolInitPackage, `{"package_name":"log_bucket"}`),
			call("2", core.ToolWriteFile, `{"filename":"storage.py","content":"class LogBucket: pass"}`),
			call("3", core.ToolRunLint, `{}`),
		).
		Call("", call("4", core.ToolReadFile, `{"filename":"storage.py"}`), call("5", core.ToolRunBuild, `{}`), call("6", core.ToolReadFile, `{"filename":"nope.py"}`)).
		Text("Completed the log bucket.")

	var texts []string
	var ended []string
	r := newTestRunner(llm, tc, func(o *RunnerOptions) {
		o.Observer = ObserverFuncs{
			Text:    func(s string) { texts = append(texts, s) },
			ToolEnd: func(name string, _ core.ToolResult) { ended = append(ended, name) },
		}
	})

	ctx := context.Background()

	turn, err := r.RunTurn(ctx, "I need a log bucket")
	require.NoError(t, err)
	assert.Equal(t, "Creating the package.", turn.Text)
	require.Len(t, turn.Results, 3)
	assert.Equal(t, "Created package 'log_bucket' at /out/log_bucket", turn.Results[0].Content)
	assert.Equal(t, "Wrote storage.py (21 bytes)", turn.Results[1].Content)
	assert.Equal(t, MsgLintPassed, turn.Results[2].Content)
	lint, ok := turn.Results[2].LintReport()
	require.True(t, ok)
	assert.True(t, lint.Passed)
	assert.Equal(t, "log_bucket", r.PackageName())
	assert.Equal(t, "3", turn.Results[2].CallID)

	turn, err = r.RunTurn(ctx, "")
	require.NoError(t, err)
	require.Len(t, turn.Results, 3)
	assert.Equal(t, "Contents of storage.py:\n\nclass LogBucket: pass", turn.Results[0].Content)
	build, ok := turn.Results[1].BuildReport()
	require.True(t, ok)
	assert.True(t, build.OK)
	assert.True(t, strings.HasPrefix(turn.Results[1].Content, "Build successful."))
	assert.Equal(t, "File not found: nope.py", turn.Results[2].Content)
	assert.True(t, turn.Results[2].IsError)

	turn, err = r.RunTurn(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Completed the log bucket.", turn.Text)
	assert.Empty(t, turn.Results)

	assert.Equal(t, []string{"Creating the package.", "Completed the log bucket."}, texts)
	assert.Equal(t, []string{"init_package", "write_file", "run_lint", "read_file", "run_build", "read_file"}, ended)

	reqs := llm.Requests()
	require.Len(t, reqs, 3)
	assert.Contains(t, reqs[0].Instructions, "wetwire-aws")
	assert.Len(t, reqs[0].Tools, 6)
	assert.Equal(t, 4096, reqs[0].MaxTokens)
	last := reqs[2].Contents[len(reqs[2].Contents)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Len(t, last.FunctionResponses(), 3)

	tc.AssertExpectations(t)
}

func TestRunner_LintFailureAndInitFailure(t *testing.T) {
	tc := &mockToolchain{}
	tc.On("Init", mock.Anything, mock.Anything).
		Return("", &toolchain.CommandError{Command: "init", ExitCode: 1, Stderr: "already exists"}).Once()
	tc.On("Init", mock.Anything, mock.Anything).Return("", nil)
	tc.On("Lint", mock.Anything, mock.Anything).
		Return(core.LintReport{Passed: false, Issues: []string{"WAW001"}, Output: "WAW001 bad\n"}, nil)

	llm := model.NewScriptedModel().
		Call("", call("1", core.ToolInitPackage, `{"package_name":"demo","description":"d"}`)).
		Call("", call("2", core.ToolInitPackage, `{"package_name":"demo","description":"d"}`), call("3", core.ToolRunLint, `{}`))

	r := newTestRunner(llm, tc)

	turn, err := r.RunTurn(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "Failed to create package: already exists", turn.Results[0].Content)
	assert.True(t, turn.Results[0].IsError)
	assert.Equal(t, "", r.PackageName())

	turn, err = r.RunTurn(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Lint found issues:\nWAW001 bad\n", turn.Results[1].Content)
	assert.False(t, turn.Results[1].IsError)
}

func TestRunner_AskDeveloperAndValidation(t *testing.T) {
	llm := model.NewScriptedModel().Call("",
		call("1", core.ToolAskDeveloper, `{"question":"Which region?"}`),
		call("2", core.ToolAskDeveloper, `{}`),
		call("3", core.ToolWriteFile, `not json`),
	)
	r := newTestRunner(llm, &mockToolchain{})

	turn, err := r.RunTurn(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, "QUESTION: Which region?", turn.Results[0].Content)
	q, ok := turn.Results[0].Question()
	require.True(t, ok)
	assert.Equal(t, "Which region?", q.Text)

	assert.True(t, turn.Results[1].IsError)
	assert.Contains(t, turn.Results[1].Content, "parameter validation failed")

	assert.True(t, turn.Results[2].IsError)
	assert.Contains(t, turn.Results[2].Content, "failed to unmarshal args")
}

func TestRunner_ContinueAfterText(t *testing.T) {
	llm := model.NewScriptedModel().Text("Thinking.").Text("Still thinking.")
	r := newTestRunner(llm, &mockToolchain{})

	_, err := r.RunTurn(context.Background(), "hi")
	require.NoError(t, err)
	_, err = r.RunTurn(context.Background(), "")
	require.NoError(t, err)

	reqs := llm.Requests()
	last := reqs[1].Contents[len(reqs[1].Contents)-1]
	assert.Equal(t, model.RoleUser, last.Role)
	assert.Equal(t, ContinueMessage, last.Text())
}

func TestRunner_Streaming(t *testing.T) {
	llm := model.NewScriptedModel().Text("streamed")
	var chunks []string
	r := newTestRunner(llm, &mockToolchain{}, func(o *RunnerOptions) {
		o.Stream = true
		o.Observer = ObserverFuncs{Text: func(s string) { chunks = append(chunks, s) }}
	})

	_, err := r.RunTurn(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"streamed"}, chunks)
	assert.True(t, llm.Requests()[0].Stream)
}

func TestRunner_ModelError(t *testing.T) {
	boom := errors.New("rate limited")
	r := newTestRunner(model.NewScriptedModel().Fail(boom), &mockToolchain{})

	_, err := r.RunTurn(context.Background(), "hi")
	assert.ErrorIs(t, err, boom)
}

func TestDeveloper_Respond(t *testing.T) {
	p, err := persona.Load("expert")
	require.NoError(t, err)

	llm := model.NewScriptedModel().Text("  Use us-east-1.  ").Text("DONE")
	d := NewDeveloper(llm, p)

	reply, err := d.Respond(context.Background(), "Which region?")
	require.NoError(t, err)
	assert.Equal(t, "Use us-east-1.", reply)

	reply, err = d.Respond(context.Background(), "All done.")
	require.NoError(t, err)
	assert.Equal(t, "DONE", reply)

	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 500, reqs[0].MaxTokens)
	assert.Contains(t, reqs[0].Instructions, p.SystemPrompt)
	assert.Contains(t, reqs[0].Instructions, "AWS infrastructure")
	assert.Contains(t, reqs[0].Instructions, `respond with exactly: "DONE"`)
	assert.Empty(t, reqs[0].Tools)
	assert.Len(t, reqs[1].Contents, 3)
	assert.Len(t, d.Conversation(), 4)
}

func TestDeveloper_ErrorRollsBack(t *testing.T) {
	p, _ := persona.Load("terse")
	d := NewDeveloper(model.NewScriptedModel().Fail(errors.New("down")), p)

	_, err := d.Respond(context.Background(), "hello?")
	assert.Error(t, err)
	assert.Empty(t, d.Conversation())
}

func TestHumanDeveloper(t *testing.T) {
	var out bytes.Buffer
	h := NewHumanDeveloper(strings.NewReader("  yes please \nquit\n"), &out)

	reply, err := h.Respond(context.Background(), "Type something: ")
	require.NoError(t, err)
	assert.Equal(t, "yes please", reply)
	assert.Equal(t, "Type something: ", out.String())

	reply, err = h.Respond(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "quit", reply)

	_, err = h.Respond(context.Background(), "")
	assert.ErrorIs(t, err, io.EOF)
}

var (
	_ core.Runner    = (*Runner)(nil)
	_ core.Developer = (*Developer)(nil)
	_ core.Developer = (*HumanDeveloper)(nil)
)

func TestToolSchemas(t *testing.T) {
	want := map[string][]string{
		core.ToolInitPackage: {"package_name"},
		core.ToolWriteFile:   {"filename", "content"},
		core.ToolReadFile:    {"filename"},
		core.ToolRunLint:     nil,
		core.ToolRunBuild:    nil,
	}

	tools := WorkspaceTools(workspace.New(t.TempDir()), &mockToolchain{})
	require.Len(t, tools, len(want))

	for _, tl := range tools {
		params := tl.Parameters()
		assert.Equal(t, "object", params["type"], tl.Name())

		required, _ := params["required"].([]string)
		assert.ElementsMatch(t, want[tl.Name()], required, tl.Name())
	}

	props := WorkspaceTools(workspace.New(t.TempDir()), &mockToolchain{})[0].Parameters()["properties"].(map[string]any)
	desc := props["description"].(map[string]any)
	assert.Equal(t, "string", desc["type"])
	assert.Equal(t, "Brief description of what this package creates", desc["description"])

	ask := AskDeveloperTool().Parameters()
	assert.Equal(t, []string{"question"}, ask["required"])
}
