package pipeline

import (
	"context"
	"fmt"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/judge"
	"ai-support-chat-be/pkg/chat/prompt"
	"ai-support-chat-be/pkg/retrieval"
)

// State of the retrieval-judgment loop.
type State string

const (
	StateRetrieving State = "RETRIEVING"
	StateJudging    State = "JUDGING"
	StateSufficient State = "SUFFICIENT" // terminal, success
	StateExhausted  State = "EXHAUSTED"  // terminal, degraded: answer with what we have
)

// DefaultRetryBudget allows one broadened retry, i.e. at most two
// retrieval attempts total. A single-shot retrieval risks irrelevant
// context; an unbounded judge-and-retry loop risks unbounded latency.
const DefaultRetryBudget = 1

// Result is the outcome of one loop run, scoped to a single request.
type Result struct {
	Passages []retrieval.Passage
	State    State
	Attempts int
}

// RetrievalLoop alternates Retrieving and Judging until the judge is
// satisfied or the retry budget runs out. Each retry broadens the
// search (wider top-k, relaxed score floor) instead of rewriting the
// query.
type RetrievalLoop struct {
	retriever   retrieval.Retriever
	judge       *judge.Judge
	retryBudget int
	logger      logger.ILogger
}

func NewRetrievalLoop(retriever retrieval.Retriever, j *judge.Judge, retryBudget int, log logger.ILogger) *RetrievalLoop {
	if retryBudget < 0 {
		retryBudget = DefaultRetryBudget
	}
	return &RetrievalLoop{
		retriever:   retriever,
		judge:       j,
		retryBudget: retryBudget,
		logger:      log,
	}
}

// Run executes the loop for the latest user question in history.
// Exhaustion is not an error: the caller proceeds with whatever was
// retrieved so the system degrades to best-effort.
func (l *RetrievalLoop) Run(ctx context.Context, history []session.Turn) (*Result, error) {
	question := prompt.LatestQuestion(history)

	var passages []retrieval.Passage
	for attempt := 0; ; attempt++ {
		var err error
		passages, err = l.retriever.Search(ctx, question, retrieval.WithAttempt(attempt))
		if err != nil {
			return nil, fmt.Errorf("retrieval attempt %d: %w", attempt+1, err)
		}

		verdict, err := l.judge.Evaluate(ctx, history, passages)
		if err != nil {
			return nil, err
		}

		if verdict.Sufficient {
			return &Result{
				Passages: passages,
				State:    StateSufficient,
				Attempts: attempt + 1,
			}, nil
		}

		if attempt >= l.retryBudget {
			l.logger.Warn("RETRIEVAL_LOOP", "Retry budget exhausted, answering best-effort", map[string]interface{}{
				"attempts": attempt + 1,
				"passages": len(passages),
			})
			return &Result{
				Passages: passages,
				State:    StateExhausted,
				Attempts: attempt + 1,
			}, nil
		}

		l.logger.Info("RETRIEVAL_LOOP", "Context insufficient, broadening search", map[string]interface{}{
			"attempt":   attempt + 1,
			"rationale": verdict.Rationale,
		})
	}
}
