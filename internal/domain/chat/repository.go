package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the persistence surface the chat service needs.
type Repository interface {
	CreateConversation(ctx context.Context, c *Conversation) error
	GetConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	FindConversation(ctx context.Context, listingID, customerID uuid.UUID) (*Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID uuid.UUID, preview string) error

	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	CountUnreadByConversation(ctx context.Context, conversationID, userID uuid.UUID) (int, error)
	CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a new chat repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateConversation(ctx context.Context, c *Conversation) error {
	query := `
		INSERT INTO conversations (id, listing_id, customer_id, provider_id, created_at)
		VALUES (:id, :listing_id, :customer_id, :provider_id, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *repository) GetConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var c Conversation
	err := r.db.GetContext(ctx, &c, `SELECT * FROM conversations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *repository) FindConversation(ctx context.Context, listingID, customerID uuid.UUID) (*Conversation, error) {
	var c Conversation
	query := `SELECT * FROM conversations WHERE listing_id = $1 AND customer_id = $2`
	err := r.db.GetContext(ctx, &c, query, listingID, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *repository) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	conversations := []*Conversation{}
	query := `
		SELECT * FROM conversations
		WHERE customer_id = $1 OR provider_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC`
	err := r.db.SelectContext(ctx, &conversations, query, userID)
	return conversations, err
}

func (r *repository) UpdateLastMessage(ctx context.Context, conversationID uuid.UUID, preview string) error {
	if len(preview) > 100 {
		preview = preview[:100]
	}
	query := `UPDATE conversations SET last_message_at = NOW(), last_message_preview = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, preview, conversationID)
	return err
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, body, is_read, created_at)
		VALUES (:id, :conversation_id, :sender_id, :body, :is_read, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, m)
	return err
}

func (r *repository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, error) {
	messages := []*Message{}
	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &messages, query, conversationID, limit, offset)
	return messages, err
}

func (r *repository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	query := `
		UPDATE messages SET is_read = true, read_at = NOW()
		WHERE conversation_id = $1 AND sender_id != $2 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, conversationID, readerID)
	return err
}

func (r *repository) CountUnreadByConversation(ctx context.Context, conversationID, userID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM messages
		WHERE conversation_id = $1 AND sender_id != $2 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, conversationID, userID)
	return count, err
}

func (r *repository) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE (c.customer_id = $1 OR c.provider_id = $1)
		  AND m.sender_id != $1 AND m.is_read = false`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
