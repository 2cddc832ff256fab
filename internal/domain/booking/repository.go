package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Booking, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	HasOverlap(ctx context.Context, listingID uuid.UUID, date string, startMinutes, endMinutes int) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (id, listing_id, customer_id, provider_id, date,
			start_minutes, end_minutes, status, price_total, created_at, updated_at)
		VALUES (:id, :listing_id, :customer_id, :provider_id, :date,
			:start_minutes, :end_minutes, :status, :price_total, NOW(), NOW())`

	_, err := r.db.NamedExecContext(ctx, query, b)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Booking, error) {
	bookings := []*Booking{}
	query := `
		SELECT * FROM bookings
		WHERE customer_id = $1
		ORDER BY date DESC, start_minutes DESC
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &bookings, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by customer: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Booking, error) {
	bookings := []*Booking{}
	query := `
		SELECT * FROM bookings
		WHERE provider_id = $1
		ORDER BY date DESC, start_minutes DESC
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &bookings, query, providerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by provider: %w", err)
	}
	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// HasOverlap reports whether a non-cancelled booking on the same listing and
// date intersects the half-open interval [startMinutes, endMinutes).
func (r *repository) HasOverlap(ctx context.Context, listingID uuid.UUID, date string, startMinutes, endMinutes int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id = $1
			  AND date = $2
			  AND status != 'cancelled'
			  AND start_minutes < $4
			  AND end_minutes > $3
		)`

	err := r.db.GetContext(ctx, &exists, query, listingID, date, startMinutes, endMinutes)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}
