package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_conversation_store.go -package=mocks github.com/filipehb/se-uo-shard/internal/storage ConversationStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// ConversationStore defines the interface for conversation storage
// operations.
type ConversationStore interface {
	// Create inserts a new conversation and returns the stored record.
	Create(ctx context.Context, systemPrompt, model string) (*ConversationRecord, error)
	// Get gets a conversation by ID.
	// Returns nil and ErrNotFound if not found.
	Get(ctx context.Context, id string) (*ConversationRecord, error)
	// ListMessages returns a conversation's messages, oldest first.
	ListMessages(ctx context.Context, conversationID string) ([]MessageRecord, error)
	// AppendExchange stores a user message and the assistant reply in a
	// single transaction and bumps the conversation's updated_at.
	AppendExchange(ctx context.Context, conversationID, userContent, assistantContent string) error
}

// ConversationRepo provides methods for conversation operations.
// It implements the ConversationStore interface.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create inserts a new conversation and returns the stored record.
func (r *ConversationRepo) Create(ctx context.Context, systemPrompt, model string) (*ConversationRecord, error) {
	id := uuid.New().String()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, system_prompt, model) VALUES (?, ?, ?)",
		id, systemPrompt, model,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	return r.Get(ctx, id)
}

// Get gets a conversation by ID.
// Returns nil and ErrNotFound if not found.
func (r *ConversationRepo) Get(ctx context.Context, id string) (*ConversationRecord, error) {
	var conv ConversationRecord
	var createdAtStr, updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, system_prompt, model, created_at, updated_at FROM conversations WHERE id = ?",
		id,
	).Scan(&conv.ID, &conv.SystemPrompt, &conv.Model, &createdAtStr, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	if conv.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	if conv.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}

	return &conv, nil
}

// ListMessages returns a conversation's messages, oldest first. A
// conversation without messages yields an empty slice, not an error.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, conversation_id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY id ASC",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []MessageRecord
	for rows.Next() {
		var msg MessageRecord
		var createdAtStr string

		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if msg.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}

		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// AppendExchange stores a user message and the assistant reply in a
// single transaction and bumps the conversation's updated_at. Either both
// messages land or neither does.
func (r *ConversationRepo) AppendExchange(ctx context.Context, conversationID, userContent, assistantContent string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content) VALUES (?, ?, ?)",
		conversationID, "user", userContent,
	); err != nil {
		return fmt.Errorf("failed to insert user message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content) VALUES (?, ?, ?)",
		conversationID, "assistant", assistantContent,
	); err != nil {
		return fmt.Errorf("failed to insert assistant message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		conversationID,
	); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// parseTimestamp parses a SQLite DATETIME string. SQLite's
// CURRENT_TIMESTAMP uses "YYYY-MM-DD HH:MM:SS"; drivers sometimes hand
// back RFC3339 instead.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
