package payment

// PayRequest for POST /payments
type PayRequest struct {
	BookingID  string `json:"booking_id" validate:"required,uuid"`
	CardNumber string `json:"card_number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	HolderName string `json:"holder_name" validate:"required,max=100"`
}
