package driven

import "context"

// LLMService provides chat-completion access to a language model.
type LLMService interface {
	// Chat sends an ordered list of messages and returns the final
	// answer text in one shot.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatStream is the incremental-delivery variant: onDelta receives
	// each text fragment as it arrives, and the accumulated text is
	// returned at the end. The returned text must be identical to what
	// Chat would have produced for the same request.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions, onDelta func(string)) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
