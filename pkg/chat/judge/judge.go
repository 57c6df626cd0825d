package judge

import (
	"context"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/decision"
	"ai-support-chat-be/pkg/chat/prompt"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/retrieval"
)

// Verdict is the sufficiency judgment for one retrieval attempt. It is
// scoped to a single orchestration run and never persisted.
type Verdict struct {
	Sufficient bool
	Rationale  string
}

// Judge asks the model whether retrieved context plus conversation
// history is enough to answer the question.
type Judge struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewJudge(llmProvider llm.LLMProvider, log logger.ILogger) *Judge {
	return &Judge{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Evaluate returns the verdict for the given context. A non-boolean
// provider answer is surfaced as an error, never defaulted.
func (j *Judge) Evaluate(ctx context.Context, history []session.Turn, passages []retrieval.Passage) (*Verdict, error) {
	sufficient, rationale, err := decision.Bool(ctx, j.llmProvider, prompt.Judge(history, passages), "sufficient")
	if err != nil {
		return nil, err
	}

	j.logger.Debug("JUDGE", "Sufficiency verdict", map[string]interface{}{
		"sufficient": sufficient,
		"passages":   len(passages),
		"rationale":  rationale,
	})

	return &Verdict{
		Sufficient: sufficient,
		Rationale:  rationale,
	}, nil
}
