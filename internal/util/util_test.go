package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleArgs struct {
	Filename string `json:"filename" description:"Target file"`
	Content  string `json:"content"`
	Force    *bool  `json:"force"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleArgs{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "filename")
	assert.Equal(t, "Target file", props["filename"].(map[string]any)["description"])
	assert.ElementsMatch(t, []string{"filename", "content"}, schema["required"])
}

func TestValidateParameters_RequiredShapes(t *testing.T) {
	goSchema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"question": map[string]any{"type": "string"}},
		"required":   []string{"question"},
	}
	jsonSchema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"question": map[string]any{"type": "string"}},
		"required":   []any{"question"},
	}

	for _, schema := range []map[string]any{goSchema, jsonSchema} {
		assert.NoError(t, ValidateParameters(map[string]any{"question": "why?"}, schema))

		err := ValidateParameters(map[string]any{}, schema)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "question", vErr.Field)

		err = ValidateParameters(map[string]any{"question": 3.0}, schema)
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Message, "expected type string")
	}
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("no markers", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markers", out)

	out, err = RenderTemplate("Domain: {{.Domain}} <b>", map[string]any{"Domain": "aws"})
	require.NoError(t, err)
	assert.Equal(t, "Domain: aws <b>", out)

	_, err = RenderTemplate("{{.Missing}}", map[string]any{})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}
