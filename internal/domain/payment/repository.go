package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines payment data access
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Payment, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, customer_id, amount, currency, status,
			card_brand, card_last4, invoice_number, paid_at, created_at)
		VALUES (:id, :booking_id, :customer_id, :amount, :currency, :status,
			:card_brand, :card_last4, :invoice_number, :paid_at, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payments WHERE booking_id = $1`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Payment, error) {
	payments := []*Payment{}
	query := `
		SELECT * FROM payments
		WHERE customer_id = $1
		ORDER BY paid_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &payments, query, customerID, limit, offset)
	return payments, err
}
