package dto

import (
	"time"
)

type SendChatRequest struct {
	UserId    string `json:"user_id" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=user service-provider"`
	SessionId string `json:"session_id,omitempty"` // omitted or unknown -> a fresh id is minted
	Prompt    string `json:"prompt" validate:"required"`
}

type SendChatResponse struct {
	UserId    string    `json:"user_id"`
	Role      string    `json:"role"`
	SessionId string    `json:"session_id"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthCheckResponse struct {
	Output   string `json:"output"`
	Passages int64  `json:"passages"`
}

// TranscriptTurnMessage is the payload published per recorded turn and
// consumed by the archive writer.
type TranscriptTurnMessage struct {
	SessionId string         `json:"session_id"`
	Speaker   string         `json:"speaker"`
	Role      string         `json:"role,omitempty"`
	Chat      string         `json:"chat"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
