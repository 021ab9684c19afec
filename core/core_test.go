package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessage(t *testing.T) {
	m := NewMessage(RoleDeveloper, "Create a bucket")
	assert.Equal(t, RoleDeveloper, m.Role)
	assert.Equal(t, "Create a bucket", m.Content)
	assert.False(t, m.Timestamp.IsZero())
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}

func TestContent_Accessors(t *testing.T) {
	c := Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "Writing "},
		FunctionCallPart{FunctionCall: FunctionCall{ID: "1", Name: ToolWriteFile}},
		TextPart{Text: "now"},
		FunctionResponsePart{FunctionResponse: FunctionResponse{ID: "1", Name: ToolWriteFile}},
	}}

	assert.Equal(t, "Writing now", c.Text())
	assert.Len(t, c.FunctionCalls(), 1)
	assert.Equal(t, ToolWriteFile, c.FunctionCalls()[0].Name)
	assert.Len(t, c.FunctionResponses(), 1)
	assert.Equal(t, "hi", NewTextContent("user", "hi").Text())
}

func TestToolResult_Reports(t *testing.T) {
	lint := ToolResult{Name: ToolRunLint, Value: LintReport{Passed: true}}
	lr, ok := lint.LintReport()
	assert.True(t, ok)
	assert.True(t, lr.Passed)
	_, ok = lint.BuildReport()
	assert.False(t, ok)

	q := ToolResult{Name: ToolAskDeveloper, Value: Question{Text: "Which region?"}}
	qq, ok := q.Question()
	assert.True(t, ok)
	assert.Equal(t, "Which region?", qq.Text)
}

func TestToolContext_Defaults(t *testing.T) {
	tc := NewToolContext(nil, "fc-1", nil)
	assert.Equal(t, context.Background(), tc.Context())
	assert.Equal(t, "fc-1", tc.FunctionCallID())
	assert.NotNil(t, tc.Logger())
}
