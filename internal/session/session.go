package session

// Speaker values for a Turn
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
	SpeakerSystem    = "system"
)

// Turn is one message in a conversation. Immutable once appended.
type Turn struct {
	Speaker string         `json:"speaker"`
	Text    string         `json:"text"`
	Payload map[string]any `json:"payload,omitempty"` // provider-specific metadata, passed through opaquely
}

// Session is the per-caller conversation state held by the Store.
// Values returned by the Store are snapshots; mutating them does not
// affect the stored state.
type Session struct {
	ID    string `json:"id"`
	Role  string `json:"role,omitempty"` // free-form caller tag, not interpreted here
	Turns []Turn `json:"turns"`
}
