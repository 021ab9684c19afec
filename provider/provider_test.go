package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New("anthropic", func(o *Options) {
		o.APIKey = "test"
		o.Model = "claude-3-haiku-20240307"
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)
	assert.Equal(t, "claude-3-haiku-20240307", m.Info().Name)

	m, err = New("OpenAI", func(o *Options) { o.APIKey = "test" })
	require.NoError(t, err)
	assert.Equal(t, "openai", m.Info().Provider)

	m, err = New("", func(o *Options) { o.APIKey = "test" })
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("bedrock")
	require.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), "anthropic, openai")
}
