package booking

// CreateRequest for booking a slot. Times accept 24-hour ("14:00") or
// 12-hour ("2:00 PM") form.
type CreateRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	Start     string `json:"start" validate:"required"`
	End       string `json:"end" validate:"required"`
}

// UpdateStatusRequest for provider-side status changes
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}
