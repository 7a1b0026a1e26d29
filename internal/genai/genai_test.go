package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "skynet"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	for _, p := range []string{"openai", "anthropic", "gemini"} {
		_, err := New(Config{Provider: p}, nil)
		assert.ErrorIs(t, err, ErrNoAPIKey, p)
	}
}

func TestNewOllamaNeedsNoKey(t *testing.T) {
	g, err := New(Config{Provider: "ollama"}, nil)
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestStripFence(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", "hello\nworld", "hello\nworld"},
		{"fenced", "```\nhello\nworld\n```", "hello\nworld"},
		{"fenced with language", "```markdown\n# Title\nbody\n```", "# Title\nbody"},
		{"unterminated fence", "```\nhello", "hello"},
		{"surrounding whitespace", "  \n```\nx\n```\n ", "x"},
		{"fence only", "```", "```"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripFence(tc.in))
		})
	}
}

func TestMockMatchesSubstrings(t *testing.T) {
	m := NewMock(map[string]string{"SECTION TO MODIFY": "edited section"})

	out, err := m.Generate(context.Background(), "...\nSECTION TO MODIFY:\n...")
	require.NoError(t, err)
	assert.Equal(t, "edited section", out)

	_, err = m.Generate(context.Background(), "unrelated prompt")
	require.Error(t, err)

	assert.Len(t, m.Prompts(), 2)
}

func TestMockForcedError(t *testing.T) {
	sentinel := errors.New("backend down")
	m := NewMock(nil)
	m.Err = sentinel

	_, err := m.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, sentinel)
}

func TestEstimateTokensRoughlyProportional(t *testing.T) {
	short := EstimateTokens("one two three")
	long := EstimateTokens("one two three four five six seven eight nine ten")
	assert.Greater(t, long, short)
	assert.Greater(t, short, 0)
}
