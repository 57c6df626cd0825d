// Dry-run simulation of the chat pipeline with scripted providers.
// Exercises router -> retrieval loop -> composer end to end without a
// model server or database. Run: go run ./cmd/simulate
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat"
	"ai-support-chat-be/pkg/chat/judge"
	"ai-support-chat-be/pkg/chat/pipeline"
	"ai-support-chat-be/pkg/chat/response"
	"ai-support-chat-be/pkg/chat/router"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/retrieval"

	"github.com/fatih/color"
)

// scriptedProvider answers the router, judge and composer prompts with
// keyword heuristics instead of a live model.
type scriptedProvider struct{}

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}
	return p.Generate(ctx, messages[len(messages)-1].Content, opts...)
}

func (p *scriptedProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(prompt, `{"route"`):
		if strings.Contains(lower, "hi") || strings.Contains(lower, "hello") || strings.Contains(lower, "thanks") {
			return `{"route": "answer"}`, nil
		}
		return `{"route": "retrieve"}`, nil

	case strings.Contains(prompt, `{"sufficient"`):
		if strings.Contains(prompt, "(nothing retrieved)") {
			return `{"sufficient": false, "reasoning": "no context found"}`, nil
		}
		return `{"sufficient": true, "reasoning": "context covers the question"}`, nil

	case strings.Contains(prompt, "<context>"):
		return "Based on our records: go to Settings > Account > Reset Password and follow the email link.", nil

	default:
		return "Hello! How can I help you today?", nil
	}
}

// cannedRetriever returns passages only for password questions, so the
// simulation shows both a sufficient and an exhausted loop.
type cannedRetriever struct{}

func (r *cannedRetriever) Search(_ context.Context, query string, opts ...retrieval.SearchOption) ([]retrieval.Passage, error) {
	config := retrieval.DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if strings.Contains(strings.ToLower(query), "password") {
		return []retrieval.Passage{
			{Text: "Password resets are self-service under Settings > Account.", Source: "help/account.md", Score: 0.82},
			{Text: "Reset links expire after 30 minutes.", Source: "help/account.md", Score: 0.74},
		}, nil
	}
	return nil, nil
}

type consoleLogger struct{}

func (consoleLogger) Debug(module, message string, details map[string]interface{}) {}
func (consoleLogger) Info(module, message string, details map[string]interface{}) {
	color.HiBlack("  [%s] %s %v", module, message, details)
}
func (consoleLogger) Warn(module, message string, details map[string]interface{}) {
	color.Yellow("  [%s] %s %v", module, message, details)
}
func (consoleLogger) Error(module, message string, details map[string]interface{}) {
	color.Red("  [%s] %s %v", module, message, details)
}
func (consoleLogger) Sync() error { return nil }

func main() {
	color.Cyan("🚀 Chat Pipeline Simulation (scripted providers)\n")

	log := consoleLogger{}
	provider := &scriptedProvider{}

	store := session.NewStore()
	chatRouter := router.NewRouter(provider, log)
	ragJudge := judge.NewJudge(provider, log)
	loop := pipeline.NewRetrievalLoop(&cannedRetriever{}, ragJudge, pipeline.DefaultRetryBudget, log)
	composer := response.NewComposer(provider, log)
	orchestrator := chat.NewOrchestrator(store, chatRouter, loop, composer, log)

	sessionID := "simulation"
	prompts := []string{
		"hi there",
		"how do I reset my password?",
		"what is the refund policy for enterprise plans?",
	}

	ctx := context.Background()
	for _, prompt := range prompts {
		color.White("\nUSER: %s", prompt)

		start := time.Now()
		exchange, err := orchestrator.HandleMessage(ctx, sessionID, prompt)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		color.Green("BOT (%s, loop=%s, passages=%d, %s):", exchange.Route, exchange.LoopState, exchange.Passages, elapsed.Round(time.Millisecond))
		fmt.Println("  " + exchange.Reply)
	}

	color.Cyan("\nSession turns recorded: %d", len(store.History(sessionID)))
}
