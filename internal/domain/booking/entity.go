package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/availability"
)

// Status represents booking lifecycle state (matches booking_status enum)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanTransitionTo reports whether a provider status change is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Booking represents a customer's reserved slot on a listing
type Booking struct {
	ID           uuid.UUID `db:"id"`
	ListingID    uuid.UUID `db:"listing_id"`
	CustomerID   uuid.UUID `db:"customer_id"`
	ProviderID   uuid.UUID `db:"provider_id"`
	Date         string    `db:"date"` // ISO YYYY-MM-DD
	StartMinutes int       `db:"start_minutes"`
	EndMinutes   int       `db:"end_minutes"`
	Status       Status    `db:"status"`
	PriceTotal   float64   `db:"price_total"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// BookingResponse for API responses
type BookingResponse struct {
	ID           uuid.UUID `json:"id"`
	ListingID    uuid.UUID `json:"listing_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	ProviderID   uuid.UUID `json:"provider_id"`
	Date         string    `json:"date"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	StartDisplay string    `json:"start_display"`
	EndDisplay   string    `json:"end_display"`
	Status       string    `json:"status"`
	PriceTotal   float64   `json:"price_total"`
	CreatedAt    string    `json:"created_at"`
}

// ToResponse converts entity to response
func (b *Booking) ToResponse() *BookingResponse {
	start := availability.TimeOfDay(b.StartMinutes)
	end := availability.TimeOfDay(b.EndMinutes)
	return &BookingResponse{
		ID:           b.ID,
		ListingID:    b.ListingID,
		CustomerID:   b.CustomerID,
		ProviderID:   b.ProviderID,
		Date:         b.Date,
		Start:        start.Storage(),
		End:          end.Storage(),
		StartDisplay: start.Display(),
		EndDisplay:   end.Display(),
		Status:       string(b.Status),
		PriceTotal:   b.PriceTotal,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}
