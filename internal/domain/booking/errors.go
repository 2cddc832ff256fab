package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrListingNotFound   = errors.New("listing not found")
	ErrSlotTaken         = errors.New("slot already taken")
	ErrNotParticipant    = errors.New("booking does not belong to you")
	ErrNotProvider       = errors.New("only the provider can change booking status")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrOwnListing        = errors.New("providers cannot book their own listing")
)

// RejectedError carries the human-readable reason a requested slot failed
// pre-flight validation. Distinct from ErrSlotTaken, which means the slot
// was valid but already held by another booking.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }
