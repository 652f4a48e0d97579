package pricing

import "math"

// DiscountQuote is the member's savings on a single booking amount.
type DiscountQuote struct {
	BookingAmount      float64 `json:"booking_amount"`
	DiscountPercentage int     `json:"discount_percentage"`
	Savings            float64 `json:"savings"`
	Payable            float64 `json:"payable"`
}

// ComputeDiscount computes the savings and final payable for a booking.
//
// Savings are rounded half-up to the whole currency unit; this value is
// money shown at checkout, so the rounding rule is fixed here rather
// than left to callers. Out-of-range inputs are clamped, never
// rejected: a bad discount row upstream must not crash a checkout.
func ComputeDiscount(bookingAmount float64, discountPercentage int) DiscountQuote {
	if bookingAmount < 0 {
		bookingAmount = 0
	}
	if discountPercentage < 0 {
		discountPercentage = 0
	} else if discountPercentage > 100 {
		discountPercentage = 100
	}

	savings := roundHalfUp(bookingAmount * float64(discountPercentage) / 100)
	return DiscountQuote{
		BookingAmount:      bookingAmount,
		DiscountPercentage: discountPercentage,
		Savings:            savings,
		Payable:            bookingAmount - savings,
	}
}

// roundHalfUp rounds to the nearest whole unit, halves away from zero.
// Inputs here are always non-negative.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
