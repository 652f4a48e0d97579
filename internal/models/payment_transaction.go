package models

import (
	"time"
)

// PaymentTransaction is the pending-order ledger for the payment
// gateway. The amount is always computed engine-side and stored here
// when the order is created, so verification never trusts a
// client-reported amount.
type PaymentTransaction struct {
	BaseModel
	UserID            string         `gorm:"not null;index" json:"user_id"`
	Purpose           PaymentPurpose `gorm:"not null" json:"purpose"` // "purchase" or "upgrade"
	PlanID            string         `gorm:"not null" json:"plan_id"`
	BillingCycle      BillingCycle   `gorm:"not null;default:'monthly'" json:"billing_cycle"`
	Amount            float64        `gorm:"not null" json:"amount"`
	Currency          string         `gorm:"not null;default:'INR'" json:"currency"`
	Status            PaymentStatus  `gorm:"not null;default:'pending'" json:"status"`
	RazorpayOrderID   string         `gorm:"uniqueIndex" json:"razorpay_order_id"`
	RazorpayPaymentID string         `json:"razorpay_payment_id"`
	PaidAt            *time.Time     `json:"paid_at,omitempty"`
}
