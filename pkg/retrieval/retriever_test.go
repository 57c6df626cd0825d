package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithAttemptBroadening(t *testing.T) {
	tests := []struct {
		name           string
		attempt        int
		wantTopK       int
		wantScoreFloor float64
	}{
		{
			name:           "first attempt keeps defaults",
			attempt:        0,
			wantTopK:       5,
			wantScoreFloor: 0.35,
		},
		{
			name:           "first retry doubles top-k and relaxes floor",
			attempt:        1,
			wantTopK:       10,
			wantScoreFloor: 0.20,
		},
		{
			name:           "second retry broadens further",
			attempt:        2,
			wantTopK:       15,
			wantScoreFloor: 0.05,
		},
		{
			name:           "floor never goes negative",
			attempt:        4,
			wantTopK:       25,
			wantScoreFloor: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			WithAttempt(tt.attempt)(&config)

			assert.Equal(t, tt.wantTopK, config.TopK)
			assert.InDelta(t, tt.wantScoreFloor, config.ScoreFloor, 1e-9)
		})
	}
}

func TestSearchOptions(t *testing.T) {
	config := DefaultConfig()
	WithTopK(3)(&config)
	WithScoreFloor(0.5)(&config)

	assert.Equal(t, 3, config.TopK)
	assert.Equal(t, 0.5, config.ScoreFloor)
}
