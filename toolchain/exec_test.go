package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(script string) Command {
	return Command{Args: []string{"sh", "-c", script}}
}

func TestExecToolchain_LintPass(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Lint = Command{Args: []string{"sh", "-c", `test -d "$1"`, "lint", "{{.Dir}}"}}
	})

	report, err := tc.Lint(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Empty(t, report.Issues)
}

func TestExecToolchain_LintFail(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Lint = shell("echo 'WAW001 wildcard import'; echo; echo 'WAW002 inline dict' >&2; exit 1")
	})

	report, err := tc.Lint(context.Background(), "pkg")
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Equal(t, []string{"WAW001 wildcard import", "WAW002 inline dict"}, report.Issues)
	assert.Contains(t, report.Output, "WAW001")
}

func TestExecToolchain_BuildWarnings(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Build = Command{
			Args: []string{"sh", "-c", `echo "root=$ROOT"; echo "Warning: deprecated" >&2; echo "warning: unused"`},
			Env:  []string{"ROOT={{.ParentDir}}"},
		}
	})

	report, err := tc.Build(context.Background(), BuildRequest{Package: "demo", ParentDir: "/srv/pkgs"})
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Equal(t, 2, report.Warnings)
	assert.Contains(t, report.Output, "root=/srv/pkgs")
}

func TestExecToolchain_BuildFail(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Build = shell("echo 'ImportError: demo' >&2; exit 2")
	})

	report, err := tc.Build(context.Background(), BuildRequest{Package: "demo"})
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.Contains(t, report.Output, "ImportError")
}

func TestExecToolchain_Init(t *testing.T) {
	out := t.TempDir()
	tc := NewExecToolchain(func(o *Options) {
		o.Init = Command{Args: []string{"mkdir", "{{.OutputDir}}/{{.Package}}"}}
	})

	_, err := tc.Init(context.Background(), InitRequest{Package: "demo", OutputDir: out, Description: "d"})
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(out, "demo"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExecToolchain_InitFailure(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Init = shell("echo 'exists' >&2; exit 3")
	})

	_, err := tc.Init(context.Background(), InitRequest{Package: "demo"})
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "exists\n", cmdErr.Stderr)
}

func TestExecToolchain_InitDisabled(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) { o.Init = Command{} })
	_, err := tc.Init(context.Background(), InitRequest{Package: "demo"})
	assert.NoError(t, err)
}

func TestExecToolchain_StartFailure(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Lint = Command{Args: []string{"/nonexistent/agentpair-lint"}}
	})
	_, err := tc.Lint(context.Background(), "pkg")
	assert.Error(t, err)
}

func TestExecToolchain_TemplateError(t *testing.T) {
	tc := NewExecToolchain(func(o *Options) {
		o.Lint = Command{Args: []string{"echo", "{{.Missing}}"}}
	})
	_, err := tc.Lint(context.Background(), "pkg")
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "lint", opts.Lint.Args[3])
	assert.Equal(t, []string{"PYTHONPATH={{.ParentDir}}"}, opts.Build.Env)
}
