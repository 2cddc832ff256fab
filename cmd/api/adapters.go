package main

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/availability"
	"github.com/servly/servly-api/internal/domain/booking"
	"github.com/servly/servly-api/internal/domain/chat"
	"github.com/servly/servly-api/internal/domain/listing"
	"github.com/servly/servly-api/internal/domain/notification"
	"github.com/servly/servly-api/internal/domain/payment"
	"github.com/servly/servly-api/internal/domain/review"
)

// The domain packages depend on narrow consumer interfaces rather than on
// each other. These adapters close the loop at wiring time.

// hubPusher delivers in-app notifications over the WebSocket hub.
type hubPusher struct {
	hub *chat.Hub
}

func (p *hubPusher) Push(userID uuid.UUID, payload any) error {
	return p.hub.SendToUser(userID, payload)
}

// bookingListingSource resolves listing schedules for slot validation.
type bookingListingSource struct {
	listings *listing.Service
}

func (a *bookingListingSource) ScheduleFor(ctx context.Context, listingID uuid.UUID) (*availability.Schedule, *booking.ListingInfo, error) {
	schedule, l, err := a.listings.ScheduleFor(ctx, listingID)
	if errors.Is(err, listing.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return schedule, &booking.ListingInfo{
		ID:           l.ID,
		ProviderID:   l.ProviderID,
		Title:        l.ServiceName,
		PricePerHour: l.PricePerHour,
	}, nil
}

// bookingNotifier turns booking lifecycle events into notifications.
type bookingNotifier struct {
	notifications *notification.Service
}

func (a *bookingNotifier) BookingCreated(ctx context.Context, b *booking.Booking, listingTitle string) {
	a.notifications.NotifyBookingCreated(ctx, b.ProviderID, listingTitle, b.Date, b.ID, b.ListingID)
}

func (a *bookingNotifier) BookingStatusChanged(ctx context.Context, b *booking.Booking, listingTitle string) {
	a.notifications.NotifyBookingStatus(ctx, b.CustomerID, string(b.Status), b.ID)
	if b.Status == booking.StatusCancelled {
		a.notifications.NotifyBookingStatus(ctx, b.ProviderID, string(b.Status), b.ID)
	}
}

// reviewBookingSource resolves bookings for review eligibility.
type reviewBookingSource struct {
	bookings booking.Repository
}

func (a *reviewBookingSource) BookingRef(ctx context.Context, bookingID uuid.UUID) (*review.BookingRef, error) {
	b, err := a.bookings.GetByID(ctx, bookingID)
	if err != nil || b == nil {
		return nil, err
	}
	return &review.BookingRef{
		ID:         b.ID,
		ListingID:  b.ListingID,
		CustomerID: b.CustomerID,
		Completed:  b.Status == booking.StatusCompleted,
	}, nil
}

// reviewNotifier tells providers about new reviews on their listings.
type reviewNotifier struct {
	notifications *notification.Service
	listings      *listing.Service
}

func (a *reviewNotifier) ReviewCreated(ctx context.Context, rev *review.Review) {
	l, err := a.listings.Get(ctx, rev.ListingID)
	if err != nil {
		return
	}
	a.notifications.NotifyNewReview(ctx, l.ProviderID, l.ServiceName, rev.Rating, rev.ID, rev.ListingID)
}

// chatListingSource resolves listings for conversation routing.
type chatListingSource struct {
	listings *listing.Service
}

func (a *chatListingSource) ListingRef(ctx context.Context, listingID uuid.UUID) (*chat.ListingRef, error) {
	l, err := a.listings.Get(ctx, listingID)
	if errors.Is(err, listing.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat.ListingRef{
		ID:         l.ID,
		ProviderID: l.ProviderID,
		Title:      l.ServiceName,
	}, nil
}

// chatNotifier raises an inbox notification for the message recipient.
type chatNotifier struct {
	notifications *notification.Service
}

func (a *chatNotifier) MessageSent(ctx context.Context, conv *chat.Conversation, msg *chat.Message) {
	recipient := conv.OtherParticipant(msg.SenderID)
	preview := msg.Body
	if len(preview) > 100 {
		preview = preview[:100]
	}
	a.notifications.NotifyNewMessage(ctx, recipient, preview, conv.ID)
}

// paymentBookingSource resolves bookings for checkout.
type paymentBookingSource struct {
	bookings booking.Repository
}

func (a *paymentBookingSource) PayableBooking(ctx context.Context, bookingID uuid.UUID) (*payment.BookingRef, error) {
	b, err := a.bookings.GetByID(ctx, bookingID)
	if err != nil || b == nil {
		return nil, err
	}
	return &payment.BookingRef{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		Status:     string(b.Status),
		PriceTotal: b.PriceTotal,
	}, nil
}
