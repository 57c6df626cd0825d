package retrieval

import (
	"context"
)

// Passage is one retrieved context snippet with its source metadata.
type Passage struct {
	Text   string
	Source string
	Score  float32
}

// Config encapsulates search parameters
type Config struct {
	TopK       int
	ScoreFloor float64 // minimum cosine similarity to keep a passage
}

// DefaultConfig returns the first-attempt search configuration
func DefaultConfig() Config {
	return Config{
		TopK:       5,
		ScoreFloor: 0.35,
	}
}

// SearchOption tunes a single Search call.
type SearchOption func(*Config)

func WithTopK(k int) SearchOption {
	return func(c *Config) {
		c.TopK = k
	}
}

func WithScoreFloor(floor float64) SearchOption {
	return func(c *Config) {
		c.ScoreFloor = floor
	}
}

// WithAttempt broadens the search for retry attempts: each attempt
// widens top-k and relaxes the similarity floor. Attempt 0 is the
// default configuration.
func WithAttempt(attempt int) SearchOption {
	return func(c *Config) {
		if attempt <= 0 {
			return
		}
		c.TopK = c.TopK * (attempt + 1)
		c.ScoreFloor = c.ScoreFloor - 0.15*float64(attempt)
		if c.ScoreFloor < 0 {
			c.ScoreFloor = 0
		}
	}
}

// Retriever returns ranked context passages for a query. An empty
// result is not an error; errors signal transport or store failure.
type Retriever interface {
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Passage, error)
}
