package storage

import "time"

// ConversationRecord represents a persisted conversation in the database.
type ConversationRecord struct {
	ID           string // UUID
	SystemPrompt string // System message replayed on every completion
	Model        string // Model the conversation is pinned to
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MessageRecord represents a single message of a conversation.
type MessageRecord struct {
	ID             int64
	ConversationID string // Foreign key to conversations.id
	Role           string // "user" or "assistant"
	Content        string
	CreatedAt      time.Time
}
