package openai

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Model identifies an OpenAI model.
type Model string

const (
	// ModelGPT4o is the heavier, higher-quality model.
	ModelGPT4o Model = "gpt-4o"
	// ModelGPT4oMini is the faster model, used when no model is requested.
	ModelGPT4oMini Model = "gpt-4o-mini"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = ModelGPT4oMini

// Message represents a single message in a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Usage reports token consumption for a completed request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
