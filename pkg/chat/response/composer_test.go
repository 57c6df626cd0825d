package response

import (
	"context"
	"errors"
	"testing"

	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// capturingProvider records the messages it was called with.
type capturingProvider struct {
	messages []llm.Message
	reply    string
	err      error
}

func (p *capturingProvider) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	p.messages = messages
	return p.reply, p.err
}

func (p *capturingProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.messages = []llm.Message{{Role: "user", Content: prompt}}
	return p.reply, p.err
}

func TestComposeDirectAnswer(t *testing.T) {
	provider := &capturingProvider{reply: "Hello! How can I help?"}
	composer := NewComposer(provider, nopLogger{})

	history := []session.Turn{
		{Speaker: session.SpeakerUser, Text: "hi there"},
	}

	reply, err := composer.Compose(context.Background(), history, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", reply)

	// Without passages the history goes through untouched.
	require.Len(t, provider.messages, 1)
	assert.Equal(t, "hi there", provider.messages[0].Content)
}

func TestComposeGroundedReplacesLatestMessageOnly(t *testing.T) {
	provider := &capturingProvider{reply: "Go to Settings > Account."}
	composer := NewComposer(provider, nopLogger{})

	history := []session.Turn{
		{Speaker: session.SpeakerUser, Text: "hi"},
		{Speaker: session.SpeakerAssistant, Text: "Hello!"},
		{Speaker: session.SpeakerUser, Text: "how do I reset my password?"},
	}
	passages := []retrieval.Passage{
		{Text: "Password resets live under Settings > Account.", Source: "help/account.md", Score: 0.8},
	}

	_, err := composer.Compose(context.Background(), history, passages)
	require.NoError(t, err)

	require.Len(t, provider.messages, 3)
	// Earlier turns are untouched.
	assert.Equal(t, "hi", provider.messages[0].Content)
	assert.Equal(t, "Hello!", provider.messages[1].Content)

	// The final message becomes the grounded prompt carrying both the
	// question and the retrieved context.
	last := provider.messages[2]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "how do I reset my password?")
	assert.Contains(t, last.Content, "Password resets live under Settings > Account.")

	// The stored history itself is never rewritten.
	assert.Equal(t, "how do I reset my password?", history[2].Text)
}

func TestComposeHonorsHistoryWindow(t *testing.T) {
	provider := &capturingProvider{reply: "ok"}
	composer := NewComposer(provider, nopLogger{})

	var history []session.Turn
	for i := 0; i < 30; i++ {
		history = append(history, session.Turn{Speaker: session.SpeakerUser, Text: "turn"})
	}

	_, err := composer.Compose(context.Background(), history, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(provider.messages), 10)
}

func TestComposeProviderError(t *testing.T) {
	provider := &capturingProvider{err: errors.New("model overloaded")}
	composer := NewComposer(provider, nopLogger{})

	_, err := composer.Compose(context.Background(), []session.Turn{
		{Speaker: session.SpeakerUser, Text: "hi"},
	}, nil)
	assert.Error(t, err)
}
