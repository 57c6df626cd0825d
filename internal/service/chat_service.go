package service

import (
	"context"
	"errors"
	"time"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/contract"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat"
	"ai-support-chat-be/pkg/chat/decision"

	"github.com/google/uuid"
)

type IChatService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	HealthCheck(ctx context.Context) (*dto.HealthCheckResponse, error)
}

type chatService struct {
	orchestrator *chat.Orchestrator
	store        *session.Store
	publisher    IPublisherService
	passageRepo  contract.PassageEmbeddingRepository
	logger       logger.ILogger
}

func NewChatService(
	orchestrator *chat.Orchestrator,
	store *session.Store,
	publisher IPublisherService,
	passageRepo contract.PassageEmbeddingRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		orchestrator: orchestrator,
		store:        store,
		publisher:    publisher,
		passageRepo:  passageRepo,
		logger:       log,
	}
}

func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	// An absent, expired or otherwise unknown session id gets a fresh
	// one; expired sessions are never silently resurrected.
	sessionID := request.SessionId
	if sessionID == "" || !cs.store.IsKnown(sessionID) {
		sessionID = cs.mintSessionID()
	}

	cs.store.GetOrCreate(sessionID)
	cs.store.TagRole(sessionID, request.Role)

	now := time.Now()
	exchange, err := cs.orchestrator.HandleMessage(ctx, sessionID, request.Prompt)
	if err != nil {
		if errors.Is(err, decision.ErrSchemaViolation) {
			// Routing/judging bug, not a degraded provider. Surface it.
			return nil, err
		}
		cs.logger.Error("CHAT_SERVICE", "Provider failure, degrading to fallback reply", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return &dto.SendChatResponse{
			UserId:    request.UserId,
			Role:      request.Role,
			SessionId: sessionID,
			Response:  constant.FallbackReply,
			Timestamp: now,
		}, nil
	}

	cs.archiveExchange(sessionID, request, exchange, now)

	return &dto.SendChatResponse{
		UserId:    request.UserId,
		Role:      request.Role,
		SessionId: sessionID,
		Response:  exchange.Reply,
		Timestamp: time.Now(),
	}, nil
}

func (cs *chatService) HealthCheck(ctx context.Context) (*dto.HealthCheckResponse, error) {
	count, err := cs.passageRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.HealthCheckResponse{
		Output:   "Support chatbot API is active!",
		Passages: count,
	}, nil
}

// archiveExchange publishes both turns for the write-behind transcript.
// Publish failures only warn: the in-memory history is authoritative.
func (cs *chatService) archiveExchange(sessionID string, request *dto.SendChatRequest, exchange *chat.Exchange, at time.Time) {
	turns := []*dto.TranscriptTurnMessage{
		{
			SessionId: sessionID,
			Speaker:   session.SpeakerUser,
			Role:      request.Role,
			Chat:      request.Prompt,
			CreatedAt: at,
		},
		{
			SessionId: sessionID,
			Speaker:   session.SpeakerAssistant,
			Chat:      exchange.Reply,
			Payload: map[string]any{
				"route":      string(exchange.Route),
				"loop_state": string(exchange.LoopState),
				"passages":   exchange.Passages,
			},
			CreatedAt: time.Now(),
		},
	}

	for _, turn := range turns {
		if err := cs.publisher.PublishTurn(turn); err != nil {
			cs.logger.Warn("CHAT_SERVICE", "Failed to publish transcript turn", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
}

func (cs *chatService) mintSessionID() string {
	for {
		id := uuid.NewString()
		if !cs.store.IsKnown(id) {
			return id
		}
	}
}
