package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	conversations map[uuid.UUID]*Conversation
	messages      []*Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{conversations: make(map[uuid.UUID]*Conversation)}
}

func (f *fakeRepo) CreateConversation(_ context.Context, c *Conversation) error {
	cp := *c
	f.conversations[c.ID] = &cp
	return nil
}

func (f *fakeRepo) GetConversationByID(_ context.Context, id uuid.UUID) (*Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) FindConversation(_ context.Context, listingID, customerID uuid.UUID) (*Conversation, error) {
	for _, c := range f.conversations {
		if c.ListingID == listingID && c.CustomerID == customerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListConversationsByUser(_ context.Context, userID uuid.UUID) ([]*Conversation, error) {
	var out []*Conversation
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateLastMessage(_ context.Context, conversationID uuid.UUID, preview string) error {
	c, ok := f.conversations[conversationID]
	if !ok {
		return nil
	}
	c.LastMessageAt.Time = time.Now()
	c.LastMessageAt.Valid = true
	c.LastMessagePreview.String = preview
	c.LastMessagePreview.Valid = true
	return nil
}

func (f *fakeRepo) CreateMessage(_ context.Context, m *Message) error {
	cp := *m
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeRepo) ListMessages(_ context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, error) {
	var out []*Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ConversationID == conversationID {
			cp := *f.messages[i]
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) MarkMessagesRead(_ context.Context, conversationID, readerID uuid.UUID) error {
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) CountUnreadByConversation(_ context.Context, conversationID, userID uuid.UUID) (int, error) {
	n := 0
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountUnreadByUser(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, m := range f.messages {
		c, ok := f.conversations[m.ConversationID]
		if ok && c.HasParticipant(userID) && m.SenderID != userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

type fakeListings struct {
	refs map[uuid.UUID]*ListingRef
}

func (f *fakeListings) ListingRef(_ context.Context, id uuid.UUID) (*ListingRef, error) {
	return f.refs[id], nil
}

func setupChatTest() (*Service, *fakeRepo, *ListingRef) {
	repo := newFakeRepo()
	ref := &ListingRef{ID: uuid.New(), ProviderID: uuid.New(), Title: "Garden Care"}
	listings := &fakeListings{refs: map[uuid.UUID]*ListingRef{ref.ID: ref}}
	return NewService(repo, listings, nil, nil), repo, ref
}

func TestStartConversation(t *testing.T) {
	svc, repo, ref := setupChatTest()
	customerID := uuid.New()

	conv, err := svc.StartConversation(context.Background(), customerID, &StartConversationRequest{
		ListingID: ref.ID.String(),
		Message:   "Is Friday morning free?",
	})
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if conv.ProviderID != ref.ProviderID {
		t.Errorf("provider not taken from listing")
	}
	if len(repo.messages) != 1 {
		t.Fatalf("expected initial message stored, got %d", len(repo.messages))
	}
	if repo.messages[0].Body != "Is Friday morning free?" {
		t.Errorf("unexpected message body: %q", repo.messages[0].Body)
	}

	// starting again returns the same conversation
	again, err := svc.StartConversation(context.Background(), customerID, &StartConversationRequest{
		ListingID: ref.ID.String(),
	})
	if err != nil {
		t.Fatalf("second StartConversation: %v", err)
	}
	if again.ID != conv.ID {
		t.Errorf("expected existing conversation to be reused")
	}
	if len(repo.conversations) != 1 {
		t.Errorf("expected 1 conversation, got %d", len(repo.conversations))
	}
}

func TestStartConversationOwnListing(t *testing.T) {
	svc, _, ref := setupChatTest()

	_, err := svc.StartConversation(context.Background(), ref.ProviderID, &StartConversationRequest{
		ListingID: ref.ID.String(),
	})
	if !errors.Is(err, ErrChatWithSelf) {
		t.Fatalf("expected ErrChatWithSelf, got %v", err)
	}
}

func TestSendMessageAccess(t *testing.T) {
	svc, repo, ref := setupChatTest()
	customerID := uuid.New()

	conv, err := svc.StartConversation(context.Background(), customerID, &StartConversationRequest{
		ListingID: ref.ID.String(),
	})
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}

	// outsider cannot send
	_, err = svc.SendMessage(context.Background(), uuid.New(), conv.ID, &SendMessageRequest{Body: "hello"})
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	// provider replies
	msg, err := svc.SendMessage(context.Background(), ref.ProviderID, conv.ID, &SendMessageRequest{Body: "Friday works"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.SenderID != ref.ProviderID {
		t.Errorf("wrong sender recorded")
	}

	// blank body rejected
	if _, err := svc.SendMessage(context.Background(), customerID, conv.ID, &SendMessageRequest{Body: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	stored := repo.conversations[conv.ID]
	if !stored.LastMessagePreview.Valid || stored.LastMessagePreview.String != "Friday works" {
		t.Errorf("last message preview not updated: %+v", stored.LastMessagePreview)
	}
}

func TestUnreadAndMarkRead(t *testing.T) {
	svc, _, ref := setupChatTest()
	customerID := uuid.New()

	conv, err := svc.StartConversation(context.Background(), customerID, &StartConversationRequest{
		ListingID: ref.ID.String(),
		Message:   "hi",
	})
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), customerID, conv.ID, &SendMessageRequest{Body: "still there?"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	count, err := svc.GetUnreadCount(context.Background(), ref.ProviderID)
	if err != nil {
		t.Fatalf("GetUnreadCount: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unread for provider, got %d", count)
	}

	// sender's own messages are never unread for them
	count, _ = svc.GetUnreadCount(context.Background(), customerID)
	if count != 0 {
		t.Errorf("expected 0 unread for customer, got %d", count)
	}

	if err := svc.MarkAsRead(context.Background(), ref.ProviderID, conv.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	count, _ = svc.GetUnreadCount(context.Background(), ref.ProviderID)
	if count != 0 {
		t.Errorf("expected 0 unread after MarkAsRead, got %d", count)
	}
}

func TestHubLocalBroadcast(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	convID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}

	hub.Register(conn)
	hub.Subscribe(convID, userID)

	hub.Broadcast(convID, &WSEvent{Type: EventTyping, ConversationID: convID})

	select {
	case data := <-conn.Send:
		if len(data) == 0 {
			t.Fatal("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered to local connection")
	}

	if !hub.IsSubscribed(convID, userID) {
		t.Errorf("user should be subscribed")
	}
	if !hub.IsOnline(userID) {
		t.Errorf("registered user should be online locally")
	}
}
