package contract

import (
	"context"

	"ai-support-chat-be/internal/model"
)

// ScoredPassage is a search hit with its cosine similarity score.
type ScoredPassage struct {
	Document string
	Source   string
	Score    float64
}

// PassageEmbeddingRepository reads the externally ingested knowledge base.
type PassageEmbeddingRepository interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, minScore float64) ([]ScoredPassage, error)
	Count(ctx context.Context) (int64, error)
}

// ChatMessageRepository stores the append-only transcript archive.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	FindBySessionId(ctx context.Context, sessionId string) ([]*model.ChatMessage, error)
}
