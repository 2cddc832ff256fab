package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// BookingRef is the slice of a booking the review rules need.
type BookingRef struct {
	ID         uuid.UUID
	ListingID  uuid.UUID
	CustomerID uuid.UUID
	Completed  bool
}

// BookingSource resolves bookings for review eligibility. Implemented by an
// adapter over the booking service.
type BookingSource interface {
	BookingRef(ctx context.Context, bookingID uuid.UUID) (*BookingRef, error)
}

// Notifier is told about published reviews. A nil Notifier disables it.
type Notifier interface {
	ReviewCreated(ctx context.Context, rev *Review)
}

type Service struct {
	store    Store
	bookings BookingSource
	notifier Notifier
}

func NewService(store Store, bookings BookingSource, notifier Notifier) *Service {
	return &Service{store: store, bookings: bookings, notifier: notifier}
}

// Create records a review for a completed booking. One review per booking,
// written by the booking's customer.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, req *CreateRequest) (*Review, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	ref, err := s.bookings.BookingRef(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrBookingNotFound
	}
	if ref.CustomerID != customerID {
		return nil, ErrNotCustomer
	}
	if !ref.Completed {
		return nil, ErrBookingNotComplete
	}

	exists, err := s.store.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now()
	rev := &Review{
		ID:         uuid.New(),
		ListingID:  ref.ListingID,
		BookingID:  bookingID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    sql.NullString{String: req.Comment, Valid: req.Comment != ""},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, rev); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.ReviewCreated(ctx, rev)
	}
	return rev, nil
}

// ListByListing returns a page of reviews plus the total count.
func (s *Service) ListByListing(ctx context.Context, listingID uuid.UUID, limit, offset int) ([]Review, int, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.store.GetByListing(ctx, listingID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountByListing(ctx, listingID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Summary aggregates a listing's rating: average, total, per-star
// distribution and the three most recent reviews.
func (s *Service) Summary(ctx context.Context, listingID uuid.UUID) (*ListingRatingSummary, error) {
	avg, err := s.store.GetAverageRating(ctx, listingID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	dist, err := s.store.GetRatingDistribution(ctx, listingID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.GetByListing(ctx, listingID, 3, 0)
	if err != nil {
		return nil, err
	}

	recentResp := make([]*ReviewResponse, len(recent))
	for i := range recent {
		recentResp[i] = recent[i].ToResponse()
	}
	return &ListingRatingSummary{
		AverageRating: avg,
		TotalReviews:  total,
		Distribution:  dist,
		RecentReviews: recentResp,
	}, nil
}

// Delete removes the caller's own review.
func (s *Service) Delete(ctx context.Context, customerID, reviewID uuid.UUID) error {
	rev, err := s.store.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev == nil {
		return ErrNotFound
	}
	if rev.CustomerID != customerID {
		return ErrNotAuthor
	}
	return s.store.Delete(ctx, reviewID)
}
