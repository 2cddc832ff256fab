package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles listing database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new listing repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new listing
func (r *Repository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (id, provider_id, service_name, description, location, price_per_hour, availability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ProviderID,
		l.ServiceName,
		l.Description,
		l.Location,
		l.PricePerHour,
		l.Availability,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("listing repository create: %w", err)
	}
	return nil
}

// GetByID returns a listing by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT * FROM listings WHERE id = $1`
	var l Listing
	err := r.db.GetContext(ctx, &l, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &l, err
}

// List returns public listings, newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Listing, error) {
	query := `
		SELECT * FROM listings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	var listings []Listing
	err := r.db.SelectContext(ctx, &listings, query, limit, offset)
	return listings, err
}

// Count returns the total number of listings
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM listings`)
	return count, err
}

// ListByProvider returns a provider's listings
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Listing, error) {
	query := `
		SELECT * FROM listings
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`
	var listings []Listing
	err := r.db.SelectContext(ctx, &listings, query, providerID)
	return listings, err
}

// Update rewrites a listing's mutable fields
func (r *Repository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings
		SET service_name = $2, description = $3, location = $4, price_per_hour = $5, availability = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ServiceName,
		l.Description,
		l.Location,
		l.PricePerHour,
		l.Availability,
	)
	if err != nil {
		return fmt.Errorf("listing repository update: %w", err)
	}
	return nil
}

// UpdatePhoto sets the stored photo key and public URLs
func (r *Repository) UpdatePhoto(ctx context.Context, id uuid.UUID, key, url, thumbnailURL string) error {
	query := `
		UPDATE listings
		SET photo_key = $2, photo_url = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, key, url, thumbnailURL)
	if err != nil {
		return fmt.Errorf("listing repository update photo: %w", err)
	}
	return nil
}

// Delete removes a listing
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("listing repository delete: %w", err)
	}
	return nil
}
