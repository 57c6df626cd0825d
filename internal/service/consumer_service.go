package service

import (
	"context"
	"encoding/json"

	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/model"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService archives transcript turns to Postgres. The archive is
// write-behind: the request path only publishes, this worker persists.
type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	chatMessageRepo contract.ChatMessageRepository
	logger          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chatMessageRepo contract.ChatMessageRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		chatMessageRepo: chatMessageRepo,
		logger:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TranscriptTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("TRANSCRIPT_CONSUMER", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	var payloadJSON datatypes.JSON
	if len(payload.Payload) > 0 {
		if raw, err := json.Marshal(payload.Payload); err == nil {
			payloadJSON = raw
		}
	}

	record := &model.ChatMessage{
		Id:        uuid.New(),
		SessionId: payload.SessionId,
		Speaker:   payload.Speaker,
		Role:      payload.Role,
		Chat:      payload.Chat,
		Payload:   payloadJSON,
		CreatedAt: payload.CreatedAt,
	}

	if err := cs.chatMessageRepo.Create(ctx, record); err != nil {
		cs.logger.Error("TRANSCRIPT_CONSUMER", "Failed to archive turn", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
