package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	notifications map[uuid.UUID]*Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{notifications: make(map[uuid.UUID]*Notification)}
}

func (f *fakeRepo) Create(_ context.Context, n *Notification) error {
	cp := *n
	f.notifications[n.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	var out []*Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnreadByUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkAsRead(_ context.Context, id uuid.UUID) error {
	if n, ok := f.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (f *fakeRepo) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.notifications, id)
	return nil
}

func (f *fakeRepo) DeleteOlderThan(_ context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	var deleted int64
	for id, n := range f.notifications {
		if n.CreatedAt.Before(cutoff) {
			delete(f.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakePusher struct {
	pushes []uuid.UUID
}

func (f *fakePusher) Push(userID uuid.UUID, _ any) error {
	f.pushes = append(f.pushes, userID)
	return nil
}

func TestNotifyBookingCreated(t *testing.T) {
	repo := newFakeRepo()
	pusher := &fakePusher{}
	svc := NewService(repo, pusher)

	providerID := uuid.New()
	bookingID := uuid.New()
	listingID := uuid.New()

	svc.NotifyBookingCreated(context.Background(), providerID, "Deep Clean", "2025-01-10", bookingID, listingID)

	if len(repo.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.notifications))
	}
	for _, n := range repo.notifications {
		if n.Type != TypeBookingCreated {
			t.Errorf("expected booking_created type, got %s", n.Type)
		}
		data := n.GetData()
		if data.BookingID == nil || *data.BookingID != bookingID {
			t.Errorf("booking id not linked: %+v", data)
		}
	}
	if len(pusher.pushes) != 1 || pusher.pushes[0] != providerID {
		t.Errorf("expected realtime push to provider, got %v", pusher.pushes)
	}
}

func TestMarkAsReadOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	userID := uuid.New()
	n, err := svc.Create(context.Background(), userID, TypeNewMessage, "New message", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// someone else's mark is a no-op
	if err := svc.MarkAsRead(context.Background(), uuid.New(), n.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	count, _ := svc.GetUnreadCount(context.Background(), userID)
	if count != 1 {
		t.Errorf("expected notification still unread, count %d", count)
	}

	if err := svc.MarkAsRead(context.Background(), userID, n.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	count, _ = svc.GetUnreadCount(context.Background(), userID)
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}

func TestMarkAllAsRead(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), userID, TypeNewMessage, "New message", "", nil); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := svc.MarkAllAsRead(context.Background(), userID); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}
	count, _ := svc.GetUnreadCount(context.Background(), userID)
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}

func TestCleanupRunOnce(t *testing.T) {
	repo := newFakeRepo()
	old := &Notification{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      TypeNewMessage,
		Title:     "stale",
		CreatedAt: time.Now().Add(-100 * 24 * time.Hour),
	}
	repo.notifications[old.ID] = old

	job := NewCleanupJob(repo, 90*24*time.Hour)
	deleted, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}
}
