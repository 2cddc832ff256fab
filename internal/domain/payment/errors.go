package payment

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotCustomer       = errors.New("only the booking's customer can pay")
	ErrBookingNotPayable = errors.New("booking must be confirmed before payment")
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrPaymentNotFound   = errors.New("payment not found")
)

// CardError carries per-field card validation failures
type CardError struct {
	Details map[string]string
}

func (e *CardError) Error() string { return "card validation failed" }
