package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRef is the slice of a booking that payment needs.
type BookingRef struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Status     string
	PriceTotal float64
}

// BookingSource resolves bookings for payment. Implemented by an adapter
// over the booking service.
type BookingSource interface {
	PayableBooking(ctx context.Context, bookingID uuid.UUID) (*BookingRef, error)
}

// Service handles payment logic
type Service struct {
	repo     Repository
	bookings BookingSource
	currency string
	now      func() time.Time
}

// NewService creates payment service
func NewService(repo Repository, bookings BookingSource) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		currency: "USD",
		now:      time.Now,
	}
}

// Pay charges a confirmed booking. Card details are validated and discarded;
// the stored record keeps only brand, last four digits and the amount.
func (s *Service) Pay(ctx context.Context, customerID uuid.UUID, req *PayRequest) (*Payment, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	booking, err := s.bookings.PayableBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.CustomerID != customerID {
		return nil, ErrNotCustomer
	}
	if booking.Status != "confirmed" {
		return nil, ErrBookingNotPayable
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaid
	}

	card := Card{
		Number: req.CardNumber,
		Expiry: req.Expiry,
		CVV:    req.CVV,
		Holder: req.HolderName,
	}
	if details := ValidateCard(card, s.now()); details != nil {
		return nil, &CardError{Details: details}
	}

	now := s.now()
	p := &Payment{
		ID:         uuid.New(),
		BookingID:  bookingID,
		CustomerID: customerID,
		Amount:     booking.PriceTotal,
		Currency:   s.currency,
		Status:     StatusPaid,
		CardBrand:  string(DetectBrand(req.CardNumber)),
		CardLast4:  Last4(req.CardNumber),
		PaidAt:     now,
		CreatedAt:  now,
	}
	p.InvoiceNumber = newInvoiceNumber(p.ID, now)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Invoice returns the receipt for a paid booking, visible to its customer.
func (s *Service) Invoice(ctx context.Context, customerID, bookingID uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	if p.CustomerID != customerID {
		return nil, ErrNotCustomer
	}
	return p, nil
}

// History returns the caller's payments, newest first.
func (s *Service) History(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}
