package response

import (
	"context"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/prompt"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/retrieval"
)

// Composer produces the final reply. It is side-effect-free on session
// state: the orchestrator owns appending the result to the history.
type Composer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewComposer(llmProvider llm.LLMProvider, log logger.ILogger) *Composer {
	return &Composer{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Compose answers the latest user message. With passages present the
// final user message is replaced, in the provider call only, by a
// grounded prompt embedding the context; with no passages the history
// is sent as-is (direct-answer route).
func (c *Composer) Compose(ctx context.Context, history []session.Turn, passages []retrieval.Passage) (string, error) {
	messages := prompt.Messages(history)

	if len(passages) > 0 && len(messages) > 0 {
		question := prompt.LatestQuestion(history)
		messages[len(messages)-1] = llm.Message{
			Role:    "user",
			Content: prompt.Grounded(question, passages),
		}
	}

	reply, err := c.llmProvider.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	c.logger.Debug("COMPOSER", "Reply generated", map[string]interface{}{
		"grounded": len(passages) > 0,
		"messages": len(messages),
	})
	return reply, nil
}
