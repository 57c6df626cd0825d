package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/judge"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeRetriever records the config of every Search call and returns a
// scripted passage set.
type fakeRetriever struct {
	calls    []retrieval.Config
	passages []retrieval.Passage
	err      error
}

func (f *fakeRetriever) Search(_ context.Context, _ string, opts ...retrieval.SearchOption) ([]retrieval.Passage, error) {
	config := retrieval.DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	f.calls = append(f.calls, config)
	return f.passages, f.err
}

// scriptedJudgeProvider emits one sufficiency verdict per call.
type scriptedJudgeProvider struct {
	verdicts []bool
	call     int
}

func (p *scriptedJudgeProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return p.Generate(ctx, "", opts...)
}

func (p *scriptedJudgeProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	if p.call >= len(p.verdicts) {
		return "", errors.New("unexpected judge call")
	}
	verdict := p.verdicts[p.call]
	p.call++
	return fmt.Sprintf(`{"sufficient": %t, "reasoning": "scripted"}`, verdict), nil
}

func history() []session.Turn {
	return []session.Turn{
		{Speaker: session.SpeakerUser, Text: "how do refunds work?"},
	}
}

func TestRunSufficientFirstAttempt(t *testing.T) {
	retriever := &fakeRetriever{passages: []retrieval.Passage{{Text: "refund policy", Score: 0.8}}}
	j := judge.NewJudge(&scriptedJudgeProvider{verdicts: []bool{true}}, nopLogger{})
	loop := NewRetrievalLoop(retriever, j, DefaultRetryBudget, nopLogger{})

	result, err := loop.Run(context.Background(), history())
	require.NoError(t, err)

	assert.Equal(t, StateSufficient, result.State)
	assert.Equal(t, 1, result.Attempts)
	assert.Len(t, retriever.calls, 1)
}

func TestRunBroadensOnceThenExhausts(t *testing.T) {
	retriever := &fakeRetriever{passages: []retrieval.Passage{{Text: "weak match", Score: 0.4}}}
	j := judge.NewJudge(&scriptedJudgeProvider{verdicts: []bool{false, false}}, nopLogger{})
	loop := NewRetrievalLoop(retriever, j, 1, nopLogger{})

	result, err := loop.Run(context.Background(), history())
	require.NoError(t, err)

	// Budget 1 means exactly two retrievals, never a third; exhaustion
	// is a degraded result, not an error.
	assert.Equal(t, StateExhausted, result.State)
	assert.Equal(t, 2, result.Attempts)
	require.Len(t, retriever.calls, 2)
	assert.Equal(t, result.Passages, retriever.passages)

	// The retry is broadened, not a repeat of the first search.
	first, second := retriever.calls[0], retriever.calls[1]
	assert.Greater(t, second.TopK, first.TopK)
	assert.Less(t, second.ScoreFloor, first.ScoreFloor)
}

func TestRunSufficientOnRetry(t *testing.T) {
	retriever := &fakeRetriever{passages: []retrieval.Passage{{Text: "better match", Score: 0.6}}}
	j := judge.NewJudge(&scriptedJudgeProvider{verdicts: []bool{false, true}}, nopLogger{})
	loop := NewRetrievalLoop(retriever, j, 1, nopLogger{})

	result, err := loop.Run(context.Background(), history())
	require.NoError(t, err)

	assert.Equal(t, StateSufficient, result.State)
	assert.Equal(t, 2, result.Attempts)
}

func TestRunZeroBudgetSingleAttempt(t *testing.T) {
	retriever := &fakeRetriever{}
	j := judge.NewJudge(&scriptedJudgeProvider{verdicts: []bool{false}}, nopLogger{})
	loop := NewRetrievalLoop(retriever, j, 0, nopLogger{})

	result, err := loop.Run(context.Background(), history())
	require.NoError(t, err)

	assert.Equal(t, StateExhausted, result.State)
	assert.Equal(t, 1, result.Attempts)
	assert.Len(t, retriever.calls, 1)
}

func TestRunRetrieverError(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("vector search failed")}
	j := judge.NewJudge(&scriptedJudgeProvider{verdicts: nil}, nopLogger{})
	loop := NewRetrievalLoop(retriever, j, 1, nopLogger{})

	_, err := loop.Run(context.Background(), history())
	assert.Error(t, err)
}

func TestRunJudgeError(t *testing.T) {
	retriever := &fakeRetriever{}
	// Judge provider fails on the first call (empty verdict script).
	j := judge.NewJudge(&scriptedJudgeProvider{}, nopLogger{})
	loop := NewRetrievalLoop(retriever, j, 1, nopLogger{})

	_, err := loop.Run(context.Background(), history())
	assert.Error(t, err)
}
