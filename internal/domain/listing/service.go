package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/availability"
	"github.com/servly/servly-api/internal/pkg/imaging"
	"github.com/servly/servly-api/internal/pkg/storage"
)

// Store is the subset of repository operations the service needs; narrowed
// for mocking in tests.
type Store interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
	Count(ctx context.Context) (int, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Listing, error)
	Update(ctx context.Context, l *Listing) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, key, url, thumbnailURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HoursError carries per-day availability validation messages back to the
// edit surface. It is expected caller-side data, not a server fault.
type HoursError struct {
	Details map[string]string
}

func (e *HoursError) Error() string { return ErrInvalidHours.Error() }

// Service handles listing business logic
type Service struct {
	store  Store
	media  storage.Storage
	images *imaging.Processor
}

// NewService creates listing service
func NewService(store Store, media storage.Storage, images *imaging.Processor) *Service {
	return &Service{store: store, media: media, images: images}
}

// buildSchedule parses and validates an availability mapping from a request.
func buildSchedule(stored map[string]availability.WindowStrings) (*availability.Schedule, error) {
	schedule, err := availability.FromStorage(stored)
	if err != nil {
		var fe *availability.FormatError
		if errors.As(err, &fe) {
			return nil, &HoursError{Details: map[string]string{"availability": fe.Error()}}
		}
		return nil, err
	}
	if !schedule.IsValid() {
		details := make(map[string]string)
		for day, msg := range schedule.FieldErrors() {
			details[string(day)] = msg
		}
		return nil, &HoursError{Details: details}
	}
	return schedule, nil
}

// Create validates availability and persists a new listing
func (s *Service) Create(ctx context.Context, providerID uuid.UUID, req *CreateRequest) (*ListingResponse, error) {
	schedule, err := buildSchedule(req.Availability)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	l := &Listing{
		ID:           uuid.New(),
		ProviderID:   providerID,
		ServiceName:  req.ServiceName,
		Description:  req.Description,
		Location:     req.Location,
		PricePerHour: req.PricePerHour,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.SetSchedule(schedule); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, l); err != nil {
		return nil, err
	}
	return l.ToResponse(), nil
}

// Get returns a listing by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l.ToResponse(), nil
}

// List returns public listings with a total count for pagination
func (s *Service) List(ctx context.Context, limit, offset int) ([]*ListingResponse, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	listings, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, listings[i].ToResponse())
	}
	return out, total, nil
}

// ListByProvider returns the provider's own listings
func (s *Service) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*ListingResponse, error) {
	listings, err := s.store.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	out := make([]*ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, listings[i].ToResponse())
	}
	return out, nil
}

// Update applies partial changes to an owned listing
func (s *Service) Update(ctx context.Context, providerID, id uuid.UUID, req *UpdateRequest) (*ListingResponse, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	if l.ProviderID != providerID {
		return nil, ErrNotOwner
	}

	if req.ServiceName != nil {
		l.ServiceName = *req.ServiceName
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Location != nil {
		l.Location = *req.Location
	}
	if req.PricePerHour != nil {
		l.PricePerHour = *req.PricePerHour
	}
	if req.Availability != nil {
		schedule, err := buildSchedule(*req.Availability)
		if err != nil {
			return nil, err
		}
		if err := l.SetSchedule(schedule); err != nil {
			return nil, err
		}
	}
	l.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, l); err != nil {
		return nil, err
	}
	return l.ToResponse(), nil
}

// Delete removes an owned listing
func (s *Service) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNotFound
	}
	if l.ProviderID != providerID {
		return ErrNotOwner
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	// Stored photos are orphaned once the row is gone; removal is best-effort.
	if s.media != nil && l.PhotoKey.Valid && l.PhotoKey.String != "" {
		_ = s.media.Delete(ctx, l.PhotoKey.String)
		_ = s.media.Delete(ctx, thumbKeyFor(l.PhotoKey.String))
	}
	return nil
}

// ScheduleFor loads the weekly schedule of a listing, for slot validation.
func (s *Service) ScheduleFor(ctx context.Context, id uuid.UUID) (*availability.Schedule, *Listing, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		return nil, nil, ErrNotFound
	}
	schedule, err := l.Schedule()
	if err != nil {
		return nil, nil, err
	}
	return schedule, l, nil
}
