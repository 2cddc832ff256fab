package listing

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/availability"
)

// AvailabilityPayload is the nested JSON document persisted on a listing:
// {"availability": {"MONDAY": {"start": "09:00", "end": "17:00"}, ...}}.
// Only days with hours are present.
type AvailabilityPayload struct {
	Availability map[string]availability.WindowStrings `json:"availability"`
}

// Listing represents a provider's bookable service offering
type Listing struct {
	ID           uuid.UUID       `db:"id"`
	ProviderID   uuid.UUID       `db:"provider_id"`
	ServiceName  string          `db:"service_name"`
	Description  string          `db:"description"`
	Location     string          `db:"location"`
	PricePerHour float64         `db:"price_per_hour"`
	Availability json.RawMessage `db:"availability"`
	PhotoKey     sql.NullString  `db:"photo_key"`
	PhotoURL     sql.NullString  `db:"photo_url"`
	ThumbnailURL sql.NullString  `db:"thumbnail_url"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// Schedule decodes the stored availability payload into a weekly schedule.
func (l *Listing) Schedule() (*availability.Schedule, error) {
	var payload AvailabilityPayload
	if len(l.Availability) > 0 {
		if err := json.Unmarshal(l.Availability, &payload); err != nil {
			return nil, err
		}
	}
	return availability.FromStorage(payload.Availability)
}

// SetSchedule collapses a schedule back onto the listing's stored payload.
func (l *Listing) SetSchedule(s *availability.Schedule) error {
	data, err := json.Marshal(AvailabilityPayload{Availability: s.ToStorage()})
	if err != nil {
		return err
	}
	l.Availability = data
	return nil
}

// ListingResponse for API responses
type ListingResponse struct {
	ID           uuid.UUID                             `json:"id"`
	ProviderID   uuid.UUID                             `json:"provider_id"`
	ServiceName  string                                `json:"service_name"`
	Description  string                                `json:"description,omitempty"`
	Location     string                                `json:"location"`
	PricePerHour float64                               `json:"price_per_hour"`
	Availability map[string]availability.WindowStrings `json:"availability"`
	PhotoURL     string                                `json:"photo_url,omitempty"`
	ThumbnailURL string                                `json:"thumbnail_url,omitempty"`
	CreatedAt    string                                `json:"created_at"`
}

// ToResponse converts entity to response
func (l *Listing) ToResponse() *ListingResponse {
	resp := &ListingResponse{
		ID:           l.ID,
		ProviderID:   l.ProviderID,
		ServiceName:  l.ServiceName,
		Description:  l.Description,
		Location:     l.Location,
		PricePerHour: l.PricePerHour,
		Availability: map[string]availability.WindowStrings{},
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	var payload AvailabilityPayload
	if len(l.Availability) > 0 && json.Unmarshal(l.Availability, &payload) == nil && payload.Availability != nil {
		resp.Availability = payload.Availability
	}
	if l.PhotoURL.Valid {
		resp.PhotoURL = l.PhotoURL.String
	}
	if l.ThumbnailURL.Valid {
		resp.ThumbnailURL = l.ThumbnailURL.String
	}
	return resp
}
