// Package chat wires the per-message pipeline: route the incoming
// message, optionally run the retrieval-judgment loop, compose the
// reply, and keep the session history in order.
package chat

import (
	"context"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/chat/pipeline"
	"ai-support-chat-be/pkg/chat/response"
	"ai-support-chat-be/pkg/chat/router"
	"ai-support-chat-be/pkg/retrieval"
)

// Exchange is the outcome of handling one user message.
type Exchange struct {
	SessionID string
	Reply     string
	Route     router.Decision
	LoopState pipeline.State // empty on the direct-answer route
	Passages  int
}

// Orchestrator runs the fixed per-message sequence: fetch-or-create
// session, append the user turn, route, optionally retrieve-and-judge,
// compose, append the assistant turn. The sequence is strictly
// sequential per request; requests on distinct sessions run in
// parallel.
type Orchestrator struct {
	store    *session.Store
	router   *router.Router
	loop     *pipeline.RetrievalLoop
	composer *response.Composer
	logger   logger.ILogger
}

func NewOrchestrator(
	store *session.Store,
	r *router.Router,
	loop *pipeline.RetrievalLoop,
	composer *response.Composer,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		store:    store,
		router:   r,
		loop:     loop,
		composer: composer,
		logger:   log,
	}
}

// HandleMessage processes one user message for the given session and
// returns the reply. Only the orchestrator appends to the session
// history; router, loop and composer read it without mutating it.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID, userText string) (*Exchange, error) {
	o.store.GetOrCreate(sessionID)

	if err := o.store.AppendTurn(ctx, sessionID, session.Turn{
		Speaker: session.SpeakerUser,
		Text:    userText,
	}); err != nil {
		return nil, err
	}
	history := o.store.History(sessionID)

	route, err := o.router.Route(ctx, history)
	if err != nil {
		return nil, err
	}

	var passages []retrieval.Passage
	var loopState pipeline.State
	if route == router.RouteRetrieve {
		result, err := o.loop.Run(ctx, history)
		if err != nil {
			return nil, err
		}
		passages = result.Passages
		loopState = result.State
	}

	reply, err := o.composer.Compose(ctx, history, passages)
	if err != nil {
		return nil, err
	}

	if err := o.store.AppendTurn(ctx, sessionID, session.Turn{
		Speaker: session.SpeakerAssistant,
		Text:    reply,
	}); err != nil {
		return nil, err
	}

	o.logger.Info("ORCHESTRATOR", "Message handled", map[string]interface{}{
		"session_id": sessionID,
		"route":      string(route),
		"loop_state": string(loopState),
		"passages":   len(passages),
	})

	return &Exchange{
		SessionID: sessionID,
		Reply:     reply,
		Route:     route,
		LoopState: loopState,
		Passages:  len(passages),
	}, nil
}
