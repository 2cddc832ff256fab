package review

import "errors"

var (
	ErrNotFound           = errors.New("review not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingNotComplete = errors.New("only completed bookings can be reviewed")
	ErrNotCustomer        = errors.New("only the booking's customer can leave a review")
	ErrAlreadyReviewed    = errors.New("booking already has a review")
	ErrNotAuthor          = errors.New("can only delete your own reviews")
)
