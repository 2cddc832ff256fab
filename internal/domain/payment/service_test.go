package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	payments map[uuid.UUID]*Payment // by booking id
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (f *fakeRepo) Create(_ context.Context, p *Payment) error {
	cp := *p
	f.payments[p.BookingID] = &cp
	return nil
}

func (f *fakeRepo) GetByBookingID(_ context.Context, bookingID uuid.UUID) (*Payment, error) {
	p, ok := f.payments[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, limit, offset int) ([]*Payment, error) {
	var out []*Payment
	for _, p := range f.payments {
		if p.CustomerID == customerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBookings struct {
	refs map[uuid.UUID]*BookingRef
}

func (f *fakeBookings) PayableBooking(_ context.Context, id uuid.UUID) (*BookingRef, error) {
	return f.refs[id], nil
}

func setupPaymentTest() (*Service, *fakeRepo, *BookingRef) {
	repo := newFakeRepo()
	ref := &BookingRef{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     "confirmed",
		PriceTotal: 150,
	}
	bookings := &fakeBookings{refs: map[uuid.UUID]*BookingRef{ref.ID: ref}}
	svc := NewService(repo, bookings)
	svc.now = func() time.Time { return testNow }
	return svc, repo, ref
}

func payRequest(bookingID uuid.UUID) *PayRequest {
	return &PayRequest{
		BookingID:  bookingID.String(),
		CardNumber: "4242 4242 4242 4242",
		Expiry:     "12/27",
		CVV:        "123",
		HolderName: "Ada Lovelace",
	}
}

func TestPay(t *testing.T) {
	svc, repo, ref := setupPaymentTest()

	p, err := svc.Pay(context.Background(), ref.CustomerID, payRequest(ref.ID))
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if p.Amount != 150 {
		t.Errorf("expected amount from booking, got %v", p.Amount)
	}
	if p.CardBrand != "visa" || p.CardLast4 != "4242" {
		t.Errorf("expected visa/4242, got %s/%s", p.CardBrand, p.CardLast4)
	}
	if p.InvoiceNumber == "" {
		t.Error("invoice number not assigned")
	}

	stored := repo.payments[ref.ID]
	if stored == nil {
		t.Fatal("payment not persisted")
	}
	if len(stored.CardLast4) != 4 {
		t.Errorf("only last four digits may be stored, got %q", stored.CardLast4)
	}

	// paying twice is rejected
	if _, err := svc.Pay(context.Background(), ref.CustomerID, payRequest(ref.ID)); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestPayGuards(t *testing.T) {
	svc, _, ref := setupPaymentTest()

	// wrong customer
	if _, err := svc.Pay(context.Background(), uuid.New(), payRequest(ref.ID)); !errors.Is(err, ErrNotCustomer) {
		t.Fatalf("expected ErrNotCustomer, got %v", err)
	}

	// pending booking cannot be paid
	ref.Status = "pending"
	if _, err := svc.Pay(context.Background(), ref.CustomerID, payRequest(ref.ID)); !errors.Is(err, ErrBookingNotPayable) {
		t.Fatalf("expected ErrBookingNotPayable, got %v", err)
	}

	// unknown booking
	if _, err := svc.Pay(context.Background(), ref.CustomerID, payRequest(uuid.New())); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestPayRejectsBadCard(t *testing.T) {
	svc, repo, ref := setupPaymentTest()

	req := payRequest(ref.ID)
	req.CardNumber = "4242424242424241" // fails Luhn

	_, err := svc.Pay(context.Background(), ref.CustomerID, req)
	var cardErr *CardError
	if !errors.As(err, &cardErr) {
		t.Fatalf("expected CardError, got %v", err)
	}
	if _, ok := cardErr.Details["card_number"]; !ok {
		t.Errorf("expected card_number error, got %v", cardErr.Details)
	}
	if len(repo.payments) != 0 {
		t.Error("failed payment must not be persisted")
	}
}

func TestInvoiceVisibility(t *testing.T) {
	svc, _, ref := setupPaymentTest()

	if _, err := svc.Pay(context.Background(), ref.CustomerID, payRequest(ref.ID)); err != nil {
		t.Fatalf("Pay: %v", err)
	}

	p, err := svc.Invoice(context.Background(), ref.CustomerID, ref.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if p.BookingID != ref.ID {
		t.Errorf("wrong booking on invoice")
	}

	if _, err := svc.Invoice(context.Background(), uuid.New(), ref.ID); !errors.Is(err, ErrNotCustomer) {
		t.Fatalf("expected ErrNotCustomer, got %v", err)
	}
	if _, err := svc.Invoice(context.Background(), ref.CustomerID, uuid.New()); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
