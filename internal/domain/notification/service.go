package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pusher delivers a notification to the user's live connections. A nil
// Pusher disables realtime delivery; notifications still persist.
type Pusher interface {
	Push(userID uuid.UUID, payload any) error
}

// Service handles notification logic
type Service struct {
	repo   Repository
	pusher Pusher
}

// NewService creates notification service
func NewService(repo Repository, pusher Pusher) *Service {
	return &Service{repo: repo, pusher: pusher}
}

// Create persists a notification and pushes it to live connections
func (s *Service) Create(ctx context.Context, userID uuid.UUID, notifType Type, title, body string, data *NotificationData) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if body != "" {
		n.Body = sql.NullString{String: body, Valid: true}
	}
	n.SetData(data)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		_ = s.pusher.Push(userID, NotificationResponseFromEntity(n))
	}

	return n, nil
}

// List returns notifications for user
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetUnreadCount returns unread count
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}

// MarkAsRead marks single notification as read, if it belongs to the user
func (s *Service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return nil
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// --- Helper methods for creating specific notifications ---

// NotifyBookingCreated notifies a provider about a new booking
func (s *Service) NotifyBookingCreated(ctx context.Context, providerID uuid.UUID, listingTitle, date string, bookingID, listingID uuid.UUID) {
	s.Create(ctx, providerID, TypeBookingCreated,
		"New booking request",
		fmt.Sprintf("%q was booked for %s", listingTitle, date),
		&NotificationData{BookingID: &bookingID, ListingID: &listingID},
	)
}

// NotifyBookingStatus notifies a user about a booking status change
func (s *Service) NotifyBookingStatus(ctx context.Context, userID uuid.UUID, status string, bookingID uuid.UUID) {
	var (
		notifType Type
		title     string
	)
	switch status {
	case "confirmed":
		notifType, title = TypeBookingConfirmed, "Booking confirmed"
	case "completed":
		notifType, title = TypeBookingCompleted, "Booking completed"
	case "cancelled":
		notifType, title = TypeBookingCancelled, "Booking cancelled"
	default:
		return
	}
	s.Create(ctx, userID, notifType, title, "", &NotificationData{BookingID: &bookingID})
}

// NotifyNewMessage notifies a user about a new chat message
func (s *Service) NotifyNewMessage(ctx context.Context, userID uuid.UUID, preview string, conversationID uuid.UUID) {
	s.Create(ctx, userID, TypeNewMessage,
		"New message",
		preview,
		&NotificationData{ConversationID: &conversationID},
	)
}

// NotifyNewReview notifies a provider about a new review on a listing
func (s *Service) NotifyNewReview(ctx context.Context, providerID uuid.UUID, listingTitle string, rating int, reviewID, listingID uuid.UUID) {
	s.Create(ctx, providerID, TypeNewReview,
		"New review",
		fmt.Sprintf("%q received a %d-star review", listingTitle, rating),
		&NotificationData{ReviewID: &reviewID, ListingID: &listingID},
	)
}
