package bootstrap

import (
	"log"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/controller"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/implementation"
	"ai-support-chat-be/internal/service"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat"
	"ai-support-chat-be/pkg/chat/judge"
	"ai-support-chat-be/pkg/chat/pipeline"
	"ai-support-chat-be/pkg/chat/response"
	"ai-support-chat-be/pkg/chat/router"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/llm/factory"
	"ai-support-chat-be/pkg/retrieval"
	"ai-support-chat-be/pkg/retrieval/vector"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background workers (exposed for main.go to run)
	ConsumerService service.IConsumerService
	SessionSweeper  *session.Sweeper
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Repositories
	passageRepo := implementation.NewPassageEmbeddingRepository(db)
	chatMessageRepo := implementation.NewChatMessageRepository(db)

	// 5. Session store + sweeper
	sessionStore := session.NewStore()
	sessionSweeper := session.NewSweeper(sessionStore, cfg.Chat.SessionTTL, cfg.Chat.SweepInterval, sysLogger)

	// 6. Chat pipeline
	retriever := vector.NewRetriever(embeddingProvider, passageRepo, sysLogger,
		retrieval.WithTopK(cfg.Chat.RetrievalTopK),
		retrieval.WithScoreFloor(cfg.Chat.RetrievalScoreFloor),
	)
	chatRouter := router.NewRouter(llmProvider, sysLogger)
	ragJudge := judge.NewJudge(llmProvider, sysLogger)
	retrievalLoop := pipeline.NewRetrievalLoop(retriever, ragJudge, cfg.Chat.RetryBudget, sysLogger)
	composer := response.NewComposer(llmProvider, sysLogger)
	orchestrator := chat.NewOrchestrator(sessionStore, chatRouter, retrievalLoop, composer, sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Chat.TranscriptTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.TranscriptTopic,
		chatMessageRepo,
		sysLogger,
	)

	chatService := service.NewChatService(
		orchestrator,
		sessionStore,
		publisherService,
		passageRepo,
		sysLogger,
	)

	// 8. Controllers
	return &Container{
		ChatController: controller.NewChatController(chatService),

		ConsumerService: consumerService,
		SessionSweeper:  sessionSweeper,
	}
}
