package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Conversation represents a message thread between a customer and the
// provider of a listing. One conversation per (listing, customer) pair.
type Conversation struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	ListingID          uuid.UUID      `db:"listing_id" json:"listing_id"`
	CustomerID         uuid.UUID      `db:"customer_id" json:"customer_id"`
	ProviderID         uuid.UUID      `db:"provider_id" json:"provider_id"`
	LastMessageAt      sql.NullTime   `db:"last_message_at" json:"-"`
	LastMessagePreview sql.NullString `db:"last_message_preview" json:"-"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// HasParticipant checks if user is part of this conversation
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.CustomerID == userID || c.ProviderID == userID
}

// OtherParticipant returns the other user in the conversation
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.CustomerID == userID {
		return c.ProviderID
	}
	return c.CustomerID
}

// Message represents a chat message
type Message struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	ConversationID uuid.UUID    `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID    `db:"sender_id" json:"sender_id"`
	Body           string       `db:"body" json:"body"`
	IsRead         bool         `db:"is_read" json:"is_read"`
	ReadAt         sql.NullTime `db:"read_at" json:"-"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
