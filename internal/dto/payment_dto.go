package dto

// VerifyPaymentRequest is the hosted-checkout completion callback. The
// signature is verified server-side against the pre-shared secret; the
// client-reported outcome is never trusted on its own.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// PaymentFailureRequest reports a failed or dismissed checkout. This is
// informational; no subscription state changes.
type PaymentFailureRequest struct {
	RazorpayOrderID string `json:"razorpay_order_id" validate:"required"`
}
