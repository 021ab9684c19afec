package model

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentpair/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedModel_RepliesInOrder(t *testing.T) {
	m := NewScriptedModel().
		Text("first").
		Call("", core.FunctionCall{ID: "c1", Name: "run_lint", Arguments: `{}`})

	ctx := context.Background()

	resp, err := Collect(ctx, m, Request{Instructions: "sys"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content.Text())
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = Collect(ctx, m, Request{}, nil)
	require.NoError(t, err)
	require.Len(t, resp.Content.FunctionCalls(), 1)
	assert.Equal(t, "run_lint", resp.Content.FunctionCalls()[0].Name)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	_, err = Collect(ctx, m, Request{}, nil)
	assert.ErrorIs(t, err, ErrScriptExhausted)

	reqs := m.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "sys", reqs[0].Instructions)
	assert.Equal(t, 0, m.Remaining())
}

func TestScriptedModel_StreamsPartialText(t *testing.T) {
	m := NewScriptedModel(core.NewTextContent(RoleAssistant, "hello"))

	var partials []string
	resp, err := Collect(context.Background(), m, Request{Stream: true}, func(r Response) {
		partials = append(partials, r.Content.Text())
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, partials)
	assert.False(t, resp.Partial)
	assert.Equal(t, "hello", resp.Content.Text())
}

func TestScriptedModel_Fail(t *testing.T) {
	boom := errors.New("boom")
	m := NewScriptedModel().Fail(boom).Text("after")

	_, err := Collect(context.Background(), m, Request{}, nil)
	assert.ErrorIs(t, err, boom)

	resp, err := Collect(context.Background(), m, Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "after", resp.Content.Text())
}

func TestScriptedModel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, NewScriptedModel().Text("x"), Request{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type silentModel struct{}

func (silentModel) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	r := make(chan Response)
	e := make(chan error)
	close(r)
	close(e)
	return r, e
}

func (silentModel) Info() Info { return Info{Name: "silent"} }

func TestCollect_NoFinalResponse(t *testing.T) {
	_, err := Collect(context.Background(), silentModel{}, Request{}, nil)
	assert.ErrorIs(t, err, ErrNoResponse)
}
