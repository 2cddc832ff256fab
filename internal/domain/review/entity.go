package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Review represents a customer's review of a listing, tied to a completed
// booking
type Review struct {
	ID         uuid.UUID      `db:"id"`
	ListingID  uuid.UUID      `db:"listing_id"`
	BookingID  uuid.UUID      `db:"booking_id"`
	CustomerID uuid.UUID      `db:"customer_id"`
	Rating     int            `db:"rating"`
	Comment    sql.NullString `db:"comment"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// ReviewResponse for API response
type ReviewResponse struct {
	ID         string `json:"id"`
	ListingID  string `json:"listing_id"`
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ToResponse converts entity to response
func (r *Review) ToResponse() *ReviewResponse {
	resp := &ReviewResponse{
		ID:         r.ID.String(),
		ListingID:  r.ListingID.String(),
		BookingID:  r.BookingID.String(),
		CustomerID: r.CustomerID.String(),
		Rating:     r.Rating,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.Comment.Valid {
		resp.Comment = r.Comment.String
	}
	return resp
}

// CreateRequest for creating a review
type CreateRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// ListingRatingSummary for listing rating overview
type ListingRatingSummary struct {
	AverageRating float64           `json:"average_rating"`
	TotalReviews  int               `json:"total_reviews"`
	Distribution  map[int]int       `json:"distribution"`
	RecentReviews []*ReviewResponse `json:"recent_reviews,omitempty"`
}
