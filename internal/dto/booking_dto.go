package dto

// BookingQuoteRequest asks what a booking would cost with the caller's
// membership discount applied. Booking persistence itself lives in the
// vertical services, not here.
type BookingQuoteRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Vertical string  `json:"vertical" validate:"omitempty,oneof=hospital hotel restaurant travel ride"`
}
