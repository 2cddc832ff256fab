package chat

import (
	"time"

	"github.com/google/uuid"
)

// StartConversationRequest for POST /chat/conversations
type StartConversationRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	Message   string `json:"message" validate:"max=4000"`
}

// SendMessageRequest for POST /chat/conversations/{id}/messages
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// ConversationResponse for API responses
type ConversationResponse struct {
	ID                 uuid.UUID `json:"id"`
	ListingID          uuid.UUID `json:"listing_id"`
	OtherUserID        uuid.UUID `json:"other_user_id"`
	LastMessageAt      *string   `json:"last_message_at,omitempty"`
	LastMessagePreview string    `json:"last_message_preview,omitempty"`
	UnreadCount        int       `json:"unread_count"`
	CreatedAt          string    `json:"created_at"`
}

// ConversationResponseFromEntity builds a response as seen by viewerID
func ConversationResponseFromEntity(c *Conversation, viewerID uuid.UUID, unread int) *ConversationResponse {
	resp := &ConversationResponse{
		ID:          c.ID,
		ListingID:   c.ListingID,
		OtherUserID: c.OtherParticipant(viewerID),
		UnreadCount: unread,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.LastMessageAt.Valid {
		s := c.LastMessageAt.Time.Format(time.RFC3339)
		resp.LastMessageAt = &s
	}
	if c.LastMessagePreview.Valid {
		resp.LastMessagePreview = c.LastMessagePreview.String
	}
	return resp
}

// MessageResponse for API responses
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	IsMine         bool      `json:"is_mine"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      string    `json:"created_at"`
}

// MessageResponseFromEntity builds a response as seen by viewerID
func MessageResponseFromEntity(m *Message, viewerID uuid.UUID) *MessageResponse {
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		IsMine:         m.SenderID == viewerID,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
