package constant

// Caller roles accepted by the chat API. Stored on the session as an
// opaque tag; the core never interprets them.
const (
	CallerRoleUser            = "user"
	CallerRoleServiceProvider = "service-provider"
)

// FallbackReply is returned when a capability provider fails. Internal
// error detail never reaches the caller.
const FallbackReply = "I'm unable to answer right now, please try again in a moment."
