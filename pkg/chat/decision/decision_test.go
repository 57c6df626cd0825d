package decision

import (
	"context"
	"errors"
	"testing"

	"ai-support-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns a fixed response (or error) for every call.
type stubProvider struct {
	response string
	err      error
}

func (p *stubProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.response, p.err
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "exact match",
			response: `{"route": "retrieve"}`,
			want:     "retrieve",
		},
		{
			name:     "case insensitive, canonical form returned",
			response: `{"route": "ANSWER"}`,
			want:     "answer",
		},
		{
			name:     "surrounding whitespace",
			response: `{"route": " retrieve "}`,
			want:     "retrieve",
		},
		{
			name:     "prose around the object",
			response: "Sure, here is my decision: {\"route\": \"answer\"} hope that helps",
			want:     "answer",
		},
		{
			name:     "label outside the set",
			response: `{"route": "maybe"}`,
			wantErr:  true,
		},
		{
			name:     "missing field",
			response: `{"routing": "answer"}`,
			wantErr:  true,
		},
		{
			name:     "field is not a string",
			response: `{"route": 42}`,
			wantErr:  true,
		},
		{
			name:     "no JSON at all",
			response: "I think you should retrieve",
			wantErr:  true,
		},
		{
			name:     "malformed JSON",
			response: `{"route": "answer"`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{response: tt.response}
			got, err := Label(context.Background(), provider, "prompt", "route", "retrieve", "answer")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSchemaViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}

	_, err := Label(context.Background(), provider, "prompt", "route", "retrieve", "answer")
	require.Error(t, err)
	// A transport failure is not a schema violation.
	assert.NotErrorIs(t, err, ErrSchemaViolation)
}

func TestBool(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		want          bool
		wantRationale string
		wantErr       bool
	}{
		{
			name:          "true with reasoning",
			response:      `{"sufficient": true, "reasoning": "covers it"}`,
			want:          true,
			wantRationale: "covers it",
		},
		{
			name:     "false without reasoning",
			response: `{"sufficient": false}`,
			want:     false,
		},
		{
			name:     "string instead of bool is not coerced",
			response: `{"sufficient": "true"}`,
			wantErr:  true,
		},
		{
			name:     "missing field",
			response: `{"enough": true}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{response: tt.response}
			got, rationale, err := Bool(context.Background(), provider, "prompt", "sufficient")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSchemaViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRationale, rationale)
		})
	}
}
