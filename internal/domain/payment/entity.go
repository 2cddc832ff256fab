package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents payment status
type Status string

const (
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
)

// Payment represents a settled booking payment. Only the card brand and the
// last four digits are kept; the full number and CVV never reach storage.
type Payment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	BookingID     uuid.UUID `db:"booking_id" json:"booking_id"`
	CustomerID    uuid.UUID `db:"customer_id" json:"customer_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	Status        Status    `db:"status" json:"status"`
	CardBrand     string    `db:"card_brand" json:"card_brand"`
	CardLast4     string    `db:"card_last4" json:"card_last4"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	PaidAt        time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// InvoiceResponse is the receipt returned after payment
type InvoiceResponse struct {
	InvoiceNumber string  `json:"invoice_number"`
	BookingID     string  `json:"booking_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	CardBrand     string  `json:"card_brand"`
	CardLast4     string  `json:"card_last4"`
	PaidAt        string  `json:"paid_at"`
}

// ToInvoice converts a payment to its receipt form
func (p *Payment) ToInvoice() *InvoiceResponse {
	return &InvoiceResponse{
		InvoiceNumber: p.InvoiceNumber,
		BookingID:     p.BookingID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		CardBrand:     p.CardBrand,
		CardLast4:     p.CardLast4,
		PaidAt:        p.PaidAt.Format(time.RFC3339),
	}
}

// newInvoiceNumber derives a short human-readable receipt number
func newInvoiceNumber(id uuid.UUID, paidAt time.Time) string {
	return fmt.Sprintf("INV-%s-%X", paidAt.Format("20060102"), id[:4])
}
