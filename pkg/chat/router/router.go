package router

import (
	"context"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/decision"
	"ai-support-chat-be/pkg/chat/prompt"
	"ai-support-chat-be/pkg/llm"
)

// Decision is the chosen branch for answering a message.
type Decision string

const (
	RouteRetrieve Decision = "retrieve"
	RouteAnswer   Decision = "answer"
)

// Router classifies each incoming message as needing knowledge-base
// retrieval or a direct answer. The classification runs fresh on every
// message: the same surface text can route differently later in a
// conversation.
type Router struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewRouter(llmProvider llm.LLMProvider, log logger.ILogger) *Router {
	return &Router{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Route returns the branch for the latest user message in history. A
// provider answer outside {retrieve, answer} is surfaced as an error.
func (r *Router) Route(ctx context.Context, history []session.Turn) (Decision, error) {
	label, err := decision.Label(ctx, r.llmProvider, prompt.Router(history), "route",
		string(RouteRetrieve), string(RouteAnswer))
	if err != nil {
		return "", err
	}

	r.logger.Debug("ROUTER", "Route decided", map[string]interface{}{
		"route": label,
	})
	return Decision(label), nil
}
