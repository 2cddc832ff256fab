package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type represents notification type
type Type string

const (
	TypeBookingCreated   Type = "booking_created"   // Provider: new booking on a listing
	TypeBookingConfirmed Type = "booking_confirmed" // Customer: provider confirmed
	TypeBookingCompleted Type = "booking_completed" // Customer: service done
	TypeBookingCancelled Type = "booking_cancelled" // Both: booking cancelled
	TypeNewMessage       Type = "new_message"       // Both: new chat message
	TypeNewReview        Type = "new_review"        // Provider: review left on a listing
)

// Notification represents a user notification
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Type      Type            `db:"type" json:"type"`
	Title     string          `db:"title" json:"title"`
	Body      sql.NullString  `db:"body" json:"body,omitempty"`
	Data      json.RawMessage `db:"data" json:"data,omitempty"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime    `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NotificationData links a notification to entities
type NotificationData struct {
	ListingID      *uuid.UUID `json:"listing_id,omitempty"`
	BookingID      *uuid.UUID `json:"booking_id,omitempty"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	ReviewID       *uuid.UUID `json:"review_id,omitempty"`
}

// SetData encodes data to JSON
func (n *Notification) SetData(data *NotificationData) {
	if data != nil {
		n.Data, _ = json.Marshal(data)
	}
}

// GetData decodes data from JSON
func (n *Notification) GetData() *NotificationData {
	if n.Data == nil {
		return &NotificationData{}
	}
	var data NotificationData
	_ = json.Unmarshal(n.Data, &data)
	return &data
}
