package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "aws", cfg.Domain)
	assert.Equal(t, "intermediate", cfg.Persona)
	assert.Equal(t, 10, cfg.MaxTurns)
	assert.Equal(t, 3, cfg.MaxLintCycles)
	assert.Equal(t, "__init__.py", cfg.Layout.Marker)
	assert.NotEmpty(t, cfg.Toolchain.Lint.Args)
	assert.Equal(t, []string{"mcp"}, cfg.Kiro.MCPArgs)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeFile(t, "config.yaml", `
provider: openai
max_turns: 4
log:
  level: debug
toolchain:
  lint:
    args: [ruff, check, "{{.Dir}}"]
`)

	t.Setenv("AGENTPAIR_MAX_TURNS", "7")
	t.Setenv("AGENTPAIR_LOG__FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 7, cfg.MaxTurns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"ruff", "check", "{{.Dir}}"}, cfg.Toolchain.Lint.Args)
	assert.NotEmpty(t, cfg.Toolchain.Build.Args)
}

func TestLoad_ProviderCaseInsensitive(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeFile(t, "config.yaml", "provider: OpenAI\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "provider: gemini\n"))
	assert.ErrorContains(t, err, `unknown provider "gemini"`)

	_, err = Load(writeFile(t, "neg.yaml", "max_turns: -1\n"))
	assert.ErrorContains(t, err, "max_turns")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log.level", envKey("AGENTPAIR_LOG__LEVEL"))
	assert.Equal(t, "max_lint_cycles", envKey("AGENTPAIR_MAX_LINT_CYCLES"))
	assert.Equal(t, "kiro.agent_name", envKey("AGENTPAIR_KIRO__AGENT_NAME"))
}

func TestScenario(t *testing.T) {
	s, err := LoadScenario(writeFile(t, "s.yaml", `
name: log_bucket
prompt: Create an S3 bucket for access logs
persona: beginner
expected_resources: [Bucket]
appropriate_questions: 1
`))
	require.NoError(t, err)
	assert.Equal(t, "log_bucket", s.Name)
	assert.Equal(t, "beginner", s.Persona)
	assert.Equal(t, []string{"Bucket"}, s.ExpectedResources)
	assert.Equal(t, 1, s.AppropriateQuestions)

	_, err = ParseScenario([]byte("name: x\n"))
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
