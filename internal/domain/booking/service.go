package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/availability"
)

// ListingInfo is the slice of a listing that booking needs to price and
// route a reservation.
type ListingInfo struct {
	ID           uuid.UUID
	ProviderID   uuid.UUID
	Title        string
	PricePerHour float64
}

// ListingSource resolves a listing's schedule and pricing. Implemented by
// an adapter over the listing service.
type ListingSource interface {
	ScheduleFor(ctx context.Context, listingID uuid.UUID) (*availability.Schedule, *ListingInfo, error)
}

// Notifier fans out booking lifecycle events. A nil Notifier disables
// notifications.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking, listingTitle string)
	BookingStatusChanged(ctx context.Context, b *Booking, listingTitle string)
}

type Service struct {
	repo     Repository
	listings ListingSource
	notifier Notifier
}

func NewService(repo Repository, listings ListingSource, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		notifier: notifier,
	}
}

// Create validates the requested slot against the listing's weekly
// availability, then against existing bookings, and persists it as pending.
// Validation failures return *RejectedError and leave no trace; a valid slot
// already held by another booking returns ErrSlotTaken.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, req *CreateRequest) (*Booking, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, ErrListingNotFound
	}

	schedule, info, err := s.listings.ScheduleFor(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || info == nil {
		return nil, ErrListingNotFound
	}
	if info.ProviderID == customerID {
		return nil, ErrOwnListing
	}

	result := ValidateSlot(schedule, req.Date, req.Start, req.End)
	if !result.OK {
		return nil, &RejectedError{Reason: result.Reason}
	}

	taken, err := s.repo.HasOverlap(ctx, listingID, result.Slot.Date, int(result.Slot.Start), int(result.Slot.End))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	hours := float64(result.Slot.End-result.Slot.Start) / 60.0
	b := &Booking{
		ID:           uuid.New(),
		ListingID:    listingID,
		CustomerID:   customerID,
		ProviderID:   info.ProviderID,
		Date:         result.Slot.Date,
		StartMinutes: int(result.Slot.Start),
		EndMinutes:   int(result.Slot.End),
		Status:       StatusPending,
		PriceTotal:   hours * info.PricePerHour,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, b, info.Title)
	}
	return b, nil
}

// Get returns a booking visible only to its customer or provider.
func (s *Service) Get(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.CustomerID != userID && b.ProviderID != userID {
		return nil, ErrNotParticipant
	}
	return b, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByProvider(ctx, providerID, limit, offset)
}

// Cancel lets either party cancel a pending or confirmed booking.
func (s *Service) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.CustomerID != userID && b.ProviderID != userID {
		return nil, ErrNotParticipant
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, StatusCancelled); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled

	if s.notifier != nil {
		s.notifier.BookingStatusChanged(ctx, b, "")
	}
	return b, nil
}

// UpdateStatus applies a provider-side status transition
// (pending -> confirmed -> completed, or cancellation).
func (s *Service) UpdateStatus(ctx context.Context, providerID, bookingID uuid.UUID, next Status) (*Booking, error) {
	switch next {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.ProviderID != providerID {
		return nil, ErrNotProvider
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, next); err != nil {
		return nil, err
	}
	b.Status = next

	if s.notifier != nil {
		s.notifier.BookingStatusChanged(ctx, b, "")
	}
	return b, nil
}
