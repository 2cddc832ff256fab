package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ProviderStats represents the provider dashboard overview
type ProviderStats struct {
	TotalListings     int     `json:"total_listings"`
	PendingBookings   int     `json:"pending_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	RevenueThisMonth  float64 `json:"revenue_this_month"`
	AverageRating     float64 `json:"average_rating"`
	ReviewsCount      int     `json:"reviews_count"`
	UnreadMessages    int     `json:"unread_messages"`
}

// DailyRevenuePoint is one day of revenue in a range
type DailyRevenuePoint struct {
	Date     string  `db:"date" json:"date"`
	Revenue  float64 `db:"revenue" json:"revenue"`
	Bookings int     `db:"bookings" json:"bookings"`
}

// ListingBookingCount pairs a listing with its booking volume
type ListingBookingCount struct {
	ListingID uuid.UUID `db:"listing_id" json:"listing_id"`
	Title     string    `db:"title" json:"title"`
	Bookings  int       `db:"bookings" json:"bookings"`
}

// Service aggregates provider statistics
type Service struct {
	db *sqlx.DB
}

// NewService creates analysis service
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// GetProviderStats returns the dashboard overview for a provider. Individual
// aggregate failures leave the corresponding field at zero.
func (s *Service) GetProviderStats(ctx context.Context, providerID uuid.UUID) (*ProviderStats, error) {
	stats := &ProviderStats{}
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	_ = s.db.GetContext(ctx, &stats.TotalListings,
		`SELECT COUNT(*) FROM listings WHERE provider_id = $1`, providerID)

	_ = s.db.GetContext(ctx, &stats.PendingBookings,
		`SELECT COUNT(*) FROM bookings WHERE provider_id = $1 AND status = 'pending'`, providerID)

	_ = s.db.GetContext(ctx, &stats.ConfirmedBookings,
		`SELECT COUNT(*) FROM bookings WHERE provider_id = $1 AND status = 'confirmed'`, providerID)

	_ = s.db.GetContext(ctx, &stats.CompletedBookings,
		`SELECT COUNT(*) FROM bookings WHERE provider_id = $1 AND status = 'completed'`, providerID)

	_ = s.db.GetContext(ctx, &stats.TotalRevenue,
		`SELECT COALESCE(SUM(p.amount), 0) FROM payments p
		 JOIN bookings b ON b.id = p.booking_id
		 WHERE b.provider_id = $1 AND p.status = 'paid'`, providerID)

	_ = s.db.GetContext(ctx, &stats.RevenueThisMonth,
		`SELECT COALESCE(SUM(p.amount), 0) FROM payments p
		 JOIN bookings b ON b.id = p.booking_id
		 WHERE b.provider_id = $1 AND p.status = 'paid' AND p.paid_at >= $2`,
		providerID, startOfMonth)

	_ = s.db.GetContext(ctx, &stats.AverageRating,
		`SELECT COALESCE(AVG(r.rating), 0) FROM reviews r
		 JOIN listings l ON l.id = r.listing_id
		 WHERE l.provider_id = $1`, providerID)

	_ = s.db.GetContext(ctx, &stats.ReviewsCount,
		`SELECT COUNT(*) FROM reviews r
		 JOIN listings l ON l.id = r.listing_id
		 WHERE l.provider_id = $1`, providerID)

	_ = s.db.GetContext(ctx, &stats.UnreadMessages,
		`SELECT COUNT(*) FROM messages m
		 JOIN conversations c ON c.id = m.conversation_id
		 WHERE c.provider_id = $1 AND m.sender_id != $1 AND m.is_read = false`, providerID)

	return stats, nil
}

// GetDailyRevenue returns per-day paid revenue for a provider in [from, to].
// Days with no payments are omitted.
func (s *Service) GetDailyRevenue(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]DailyRevenuePoint, error) {
	points := []DailyRevenuePoint{}
	query := `
		SELECT TO_CHAR(p.paid_at, 'YYYY-MM-DD') AS date,
		       COALESCE(SUM(p.amount), 0) AS revenue,
		       COUNT(*) AS bookings
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.provider_id = $1 AND p.status = 'paid'
		  AND p.paid_at >= $2 AND p.paid_at < $3
		GROUP BY 1
		ORDER BY 1`

	err := s.db.SelectContext(ctx, &points, query, providerID, from, to.AddDate(0, 0, 1))
	return points, err
}

// GetBookingsByListing returns booking counts per listing for a provider.
func (s *Service) GetBookingsByListing(ctx context.Context, providerID uuid.UUID) ([]ListingBookingCount, error) {
	counts := []ListingBookingCount{}
	query := `
		SELECT l.id AS listing_id, l.title,
		       COUNT(b.id) AS bookings
		FROM listings l
		LEFT JOIN bookings b ON b.listing_id = l.id AND b.status != 'cancelled'
		WHERE l.provider_id = $1
		GROUP BY l.id, l.title
		ORDER BY bookings DESC`

	err := s.db.SelectContext(ctx, &counts, query, providerID)
	return counts, err
}
