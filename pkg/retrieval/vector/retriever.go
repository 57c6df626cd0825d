package vector

import (
	"context"
	"fmt"
	"time"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/repository/contract"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/retrieval"

	"github.com/patrickmn/go-cache"
)

// Retriever answers queries from the pgvector knowledge base: embed the
// query, order passages by cosine similarity, keep those above the
// score floor. Query embeddings are cached so a broadened retry of the
// same query does not re-embed it.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	passageRepo       contract.PassageEmbeddingRepository
	embeddingCache    *cache.Cache
	defaults          []retrieval.SearchOption
	logger            logger.ILogger
}

var _ retrieval.Retriever = &Retriever{}

// NewRetriever builds a pgvector retriever. defaults are applied to
// every Search before the per-call options, so deployment-level top-k
// and score-floor settings can still be broadened by loop retries.
func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	passageRepo contract.PassageEmbeddingRepository,
	log logger.ILogger,
	defaults ...retrieval.SearchOption,
) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		passageRepo:       passageRepo,
		embeddingCache:    cache.New(10*time.Minute, 15*time.Minute),
		defaults:          defaults,
		logger:            log,
	}
}

func (r *Retriever) Search(ctx context.Context, query string, opts ...retrieval.SearchOption) ([]retrieval.Passage, error) {
	config := retrieval.DefaultConfig()
	for _, opt := range r.defaults {
		opt(&config)
	}
	for _, opt := range opts {
		opt(&config)
	}

	queryVector, err := r.embedQuery(query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.passageRepo.SearchSimilarWithScore(ctx, queryVector, config.TopK, config.ScoreFloor)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	r.logger.Debug("RETRIEVER", "Vector search completed", map[string]interface{}{
		"top_k":       config.TopK,
		"score_floor": config.ScoreFloor,
		"hits":        len(scored),
	})

	passages := make([]retrieval.Passage, len(scored))
	for i, s := range scored {
		passages[i] = retrieval.Passage{
			Text:   s.Document,
			Source: s.Source,
			Score:  float32(s.Score),
		}
	}
	return passages, nil
}

func (r *Retriever) embedQuery(query string) ([]float32, error) {
	if cached, found := r.embeddingCache.Get(query); found {
		return cached.([]float32), nil
	}

	values, err := r.embeddingProvider.Generate(query, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}

	r.embeddingCache.Set(query, values, cache.DefaultExpiration)
	return values, nil
}
