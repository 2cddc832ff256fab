package listing

import "github.com/servly/servly-api/internal/availability"

// CreateRequest for creating a listing
type CreateRequest struct {
	ServiceName  string                                `json:"service_name" validate:"required,min=2,max=200"`
	Description  string                                `json:"description" validate:"max=2000"`
	Location     string                                `json:"location" validate:"required,min=2,max=200"`
	PricePerHour float64                               `json:"price_per_hour" validate:"required,gt=0"`
	Availability map[string]availability.WindowStrings `json:"availability"`
}

// UpdateRequest for updating a listing; nil fields are left unchanged
type UpdateRequest struct {
	ServiceName  *string                                `json:"service_name" validate:"omitempty,min=2,max=200"`
	Description  *string                                `json:"description" validate:"omitempty,max=2000"`
	Location     *string                                `json:"location" validate:"omitempty,min=2,max=200"`
	PricePerHour *float64                               `json:"price_per_hour" validate:"omitempty,gt=0"`
	Availability *map[string]availability.WindowStrings `json:"availability"`
}
