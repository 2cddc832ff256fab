package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/availability"
)

type fakeRepo struct {
	bookings map[uuid.UUID]*Booking
	creates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	f.creates++
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, limit, offset int) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByProvider(_ context.Context, providerID uuid.UUID, limit, offset int) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.ProviderID == providerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) HasOverlap(_ context.Context, listingID uuid.UUID, date string, start, end int) (bool, error) {
	for _, b := range f.bookings {
		if b.ListingID != listingID || b.Date != date || b.Status == StatusCancelled {
			continue
		}
		if b.StartMinutes < end && b.EndMinutes > start {
			return true, nil
		}
	}
	return false, nil
}

type fakeListings struct {
	schedule *availability.Schedule
	info     *ListingInfo
}

func (f *fakeListings) ScheduleFor(_ context.Context, id uuid.UUID) (*availability.Schedule, *ListingInfo, error) {
	if f.info == nil || f.info.ID != id {
		return nil, nil, nil
	}
	return f.schedule, f.info, nil
}

type fakeNotifier struct {
	created       int
	statusChanged int
}

func (f *fakeNotifier) BookingCreated(_ context.Context, _ *Booking, _ string)       { f.created++ }
func (f *fakeNotifier) BookingStatusChanged(_ context.Context, _ *Booking, _ string) { f.statusChanged++ }

func weekdaySchedule(t *testing.T) *availability.Schedule {
	t.Helper()
	stored := map[string]availability.WindowStrings{
		"MONDAY":    {Start: "09:00", End: "17:00"},
		"TUESDAY":   {Start: "09:00", End: "17:00"},
		"WEDNESDAY": {Start: "09:00", End: "17:00"},
		"THURSDAY":  {Start: "09:00", End: "17:00"},
		"FRIDAY":    {Start: "09:00", End: "17:00"},
	}
	s, err := availability.FromStorage(stored)
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	return s
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeListings, *fakeNotifier, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	listingID := uuid.New()
	listings := &fakeListings{
		schedule: weekdaySchedule(t),
		info: &ListingInfo{
			ID:           listingID,
			ProviderID:   uuid.New(),
			Title:        "Deep Clean",
			PricePerHour: 50,
		},
	}
	notifier := &fakeNotifier{}
	return NewService(repo, listings, notifier), repo, listings, notifier, listingID
}

func TestCreateBooking(t *testing.T) {
	svc, repo, listings, notifier, listingID := newTestService(t)
	customerID := uuid.New()

	// 2025-01-10 is a Friday
	b, err := svc.Create(context.Background(), customerID, &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != StatusPending {
		t.Errorf("expected pending status, got %s", b.Status)
	}
	if b.StartMinutes != 600 || b.EndMinutes != 720 {
		t.Errorf("expected 600-720 minutes, got %d-%d", b.StartMinutes, b.EndMinutes)
	}
	if b.PriceTotal != 100 {
		t.Errorf("expected price 100 for 2h at 50/h, got %v", b.PriceTotal)
	}
	if b.ProviderID != listings.info.ProviderID {
		t.Errorf("provider id not taken from listing")
	}
	if repo.creates != 1 {
		t.Errorf("expected 1 create, got %d", repo.creates)
	}
	if notifier.created != 1 {
		t.Errorf("expected creation notification")
	}
}

func TestCreateBookingAcceptsDisplayTimes(t *testing.T) {
	svc, _, _, _, listingID := newTestService(t)

	b, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00 AM",
		End:       "2:30 PM",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.StartMinutes != 600 || b.EndMinutes != 870 {
		t.Errorf("expected 600-870 minutes, got %d-%d", b.StartMinutes, b.EndMinutes)
	}
	if b.PriceTotal != 225 {
		t.Errorf("expected price 225 for 4.5h at 50/h, got %v", b.PriceTotal)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		start  string
		end    string
		reason string
	}{
		{
			name:   "closed day",
			date:   "2025-01-11", // Saturday
			start:  "10:00",
			end:    "12:00",
			reason: "provider not available on SATURDAY",
		},
		{
			name:   "inverted times",
			date:   "2025-01-10",
			start:  "12:00",
			end:    "10:00",
			reason: "start time must be earlier than end time",
		},
		{
			name:   "outside hours",
			date:   "2025-01-10",
			start:  "08:00",
			end:    "10:00",
			reason: "selected time must be within available hours: 09:00–17:00",
		},
		{
			name:   "missing start",
			date:   "2025-01-10",
			start:  "",
			end:    "10:00",
			reason: "missing fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, notifier, listingID := newTestService(t)

			_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
				ListingID: listingID.String(),
				Date:      tt.date,
				Start:     tt.start,
				End:       tt.end,
			})

			var rejected *RejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("expected RejectedError, got %v", err)
			}
			if rejected.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, rejected.Reason)
			}
			if repo.creates != 0 {
				t.Errorf("rejected slot must not be persisted")
			}
			if notifier.created != 0 {
				t.Errorf("rejected slot must not notify")
			}
		})
	}
}

func TestCreateBookingConflict(t *testing.T) {
	svc, repo, _, _, listingID := newTestService(t)

	first, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// overlapping with the first booking
	_, err = svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "11:00",
		End:       "13:00",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// adjacent slot does not conflict
	if _, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "12:00",
		End:       "13:00",
	}); err != nil {
		t.Fatalf("adjacent slot should be allowed: %v", err)
	}

	// cancelled booking frees the slot
	if _, err := svc.Cancel(context.Background(), first.CustomerID, first.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "11:00",
	}); err != nil {
		t.Fatalf("slot should be free after cancellation: %v", err)
	}
	_ = repo
}

func TestCreateBookingOwnListing(t *testing.T) {
	svc, _, listings, _, listingID := newTestService(t)

	_, err := svc.Create(context.Background(), listings.info.ProviderID, &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if !errors.Is(err, ErrOwnListing) {
		t.Fatalf("expected ErrOwnListing, got %v", err)
	}
}

func TestCreateBookingUnknownListing(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: uuid.New().String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	svc, _, _, notifier, listingID := newTestService(t)
	customerID := uuid.New()

	b, err := svc.Create(context.Background(), customerID, &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// stranger cannot cancel
	if _, err := svc.Cancel(context.Background(), uuid.New(), b.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), customerID, b.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
	if notifier.statusChanged != 1 {
		t.Errorf("expected status change notification")
	}

	if _, err := svc.Cancel(context.Background(), customerID, b.ID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	svc, _, listings, _, listingID := newTestService(t)
	providerID := listings.info.ProviderID

	b, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// customer cannot change status
	if _, err := svc.UpdateStatus(context.Background(), b.CustomerID, b.ID, StatusConfirmed); !errors.Is(err, ErrNotProvider) {
		t.Fatalf("expected ErrNotProvider, got %v", err)
	}

	// pending cannot jump straight to completed
	if _, err := svc.UpdateStatus(context.Background(), providerID, b.ID, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	confirmed, err := svc.UpdateStatus(context.Background(), providerID, b.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}

	completed, err := svc.UpdateStatus(context.Background(), providerID, b.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}

	// completed is terminal
	if _, err := svc.UpdateStatus(context.Background(), providerID, b.ID, StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from completed, got %v", err)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	svc, _, listings, _, listingID := newTestService(t)
	customerID := uuid.New()

	b, err := svc.Create(context.Background(), customerID, &CreateRequest{
		ListingID: listingID.String(),
		Date:      "2025-01-10",
		Start:     "10:00",
		End:       "12:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), customerID, b.ID); err != nil {
		t.Errorf("customer should see own booking: %v", err)
	}
	if _, err := svc.Get(context.Background(), listings.info.ProviderID, b.ID); err != nil {
		t.Errorf("provider should see booking on own listing: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), b.ID); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("stranger should get ErrNotParticipant, got %v", err)
	}
	if _, err := svc.Get(context.Background(), customerID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
