package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_SlogText(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LogLevelInfo, Format: "text", Output: &buf, Component: "orchestrator"})

	l.Debug("hidden")
	l.Info("orchestrator.turn.start", "turn", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "orchestrator.turn.start")
	assert.Contains(t, out, "component=orchestrator")
	assert.Contains(t, out, "turn=1")
}

func TestNew_SlogJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LogLevelDebug, Format: "json", Output: &buf})
	l.Debug("tool.call.start", "tool", "run_lint")
	assert.Contains(t, buf.String(), `"tool":"run_lint"`)
}

func TestNew_Zap(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LogLevelWarn, Format: "json", Backend: "zap", Output: &buf})
	l.Info("dropped")
	l.Warn("kept", "k", "v")

	za, ok := l.(*ZapAdapter)
	require.True(t, ok)
	_ = za.Sync()

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LogLevelDebug, Output: &buf})

	LogToolCall(l, "write_file", time.Millisecond, nil)
	LogLLMCall(l, "claude", 42, time.Second, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "tool.call.completed")
	assert.Contains(t, out, "llm.call.failed")
	assert.Contains(t, out, "error=boom")
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewSlogAdapter(slog.Default())
	assert.Same(t, l, OrNoOp(l))
}
