package router

import (
	"context"
	"testing"

	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/decision"
	"ai-support-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestRoute(t *testing.T) {
	history := []session.Turn{
		{Speaker: session.SpeakerUser, Text: "how do I reset my password?"},
	}

	tests := []struct {
		name     string
		response string
		want     Decision
		wantErr  bool
	}{
		{
			name:     "retrieve",
			response: `{"route": "retrieve"}`,
			want:     RouteRetrieve,
		},
		{
			name:     "answer",
			response: `{"route": "answer"}`,
			want:     RouteAnswer,
		},
		{
			name:     "uppercase normalized",
			response: `{"route": "Retrieve"}`,
			want:     RouteRetrieve,
		},
		{
			name:     "out-of-set label surfaces an error",
			response: `{"route": "search"}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(&stubProvider{response: tt.response}, nopLogger{})
			got, err := r.Route(context.Background(), history)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, decision.ErrSchemaViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The router sees the question inside the classification prompt, not as
// a raw chat history.
func TestRoutePromptCarriesQuestion(t *testing.T) {
	var captured string
	r := NewRouter(&capturingProvider{response: `{"route": "answer"}`, prompt: &captured}, nopLogger{})

	_, err := r.Route(context.Background(), []session.Turn{
		{Speaker: session.SpeakerUser, Text: "what plans do you offer?"},
	})
	require.NoError(t, err)
	assert.Contains(t, captured, "what plans do you offer?")
	assert.Contains(t, captured, `"route"`)
}

type capturingProvider struct {
	response string
	prompt   *string
}

func (p *capturingProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	if len(messages) > 0 {
		*p.prompt = messages[len(messages)-1].Content
	}
	return p.response, nil
}

func (p *capturingProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	*p.prompt = prompt
	return p.response, nil
}
