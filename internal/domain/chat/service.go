package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListingRef is the slice of a listing that conversation creation needs.
type ListingRef struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Title      string
}

// ListingSource resolves listings for conversation routing. Implemented by
// an adapter over the listing service.
type ListingSource interface {
	ListingRef(ctx context.Context, listingID uuid.UUID) (*ListingRef, error)
}

// Notifier is told about messages delivered to an offline-capable inbox.
// A nil Notifier disables it.
type Notifier interface {
	MessageSent(ctx context.Context, conv *Conversation, msg *Message)
}

// Service handles chat business logic
type Service struct {
	repo     Repository
	listings ListingSource
	hub      *Hub
	notifier Notifier
}

// NewService creates chat service
func NewService(repo Repository, listings ListingSource, hub *Hub, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		hub:      hub,
		notifier: notifier,
	}
}

// StartConversation opens (or returns the existing) conversation between the
// caller and the provider of a listing, optionally sending a first message.
func (s *Service) StartConversation(ctx context.Context, customerID uuid.UUID, req *StartConversationRequest) (*Conversation, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, ErrListingNotFound
	}

	ref, err := s.listings.ListingRef(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrListingNotFound
	}
	if ref.ProviderID == customerID {
		return nil, ErrChatWithSelf
	}

	conv, err := s.repo.FindConversation(ctx, listingID, customerID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &Conversation{
			ID:         uuid.New(),
			ListingID:  listingID,
			CustomerID: customerID,
			ProviderID: ref.ProviderID,
			CreatedAt:  time.Now(),
		}
		if err := s.repo.CreateConversation(ctx, conv); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(req.Message) != "" {
		if _, err := s.SendMessage(ctx, customerID, conv.ID, &SendMessageRequest{Body: req.Message}); err != nil {
			return nil, err
		}
	}

	return conv, nil
}

// GetConversation returns a conversation visible only to its participants
func (s *Service) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*Conversation, error) {
	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// ConversationWithUnread pairs a conversation with the viewer's unread count
type ConversationWithUnread struct {
	*Conversation
	UnreadCount int
}

// ListConversations returns all conversations for user, most recent first
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]*ConversationWithUnread, error) {
	conversations, err := s.repo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*ConversationWithUnread, len(conversations))
	for i, conv := range conversations {
		unread, _ := s.repo.CountUnreadByConversation(ctx, conv.ID, userID)
		result[i] = &ConversationWithUnread{
			Conversation: conv,
			UnreadCount:  unread,
		}
	}
	return result, nil
}

// SendMessage sends a message in a conversation
func (s *Service) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, req *SendMessageRequest) (*Message, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.repo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	msg := &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       userID,
		Body:           body,
		IsRead:         false,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	_ = s.repo.UpdateLastMessage(ctx, conversationID, body)

	if s.hub != nil {
		s.hub.Broadcast(conversationID, &WSEvent{
			Type:           EventNewMessage,
			ConversationID: conversationID,
			Message:        msg,
		})
	}
	if s.notifier != nil {
		s.notifier.MessageSent(ctx, conv, msg)
	}

	return msg, nil
}

// GetMessages returns messages for a conversation, newest first
func (s *Service) GetMessages(ctx context.Context, userID, conversationID uuid.UUID, limit, offset int) ([]*Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListMessages(ctx, conversationID, limit, offset)
}

// MarkAsRead marks all messages from the other participant as read
func (s *Service) MarkAsRead(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}

	if err := s.repo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast(conversationID, &WSEvent{
			Type:           EventRead,
			ConversationID: conversationID,
			SenderID:       userID,
		})
	}
	return nil
}

// GetUnreadCount returns total unread message count for user
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}
