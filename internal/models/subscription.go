package models

import (
	"time"
)

// Subscription is a member's ownership of a plan for a bounded period.
//
// PlanPrice and DiscountPercentage are snapshots taken at purchase or
// upgrade time; later catalog price changes never affect an existing
// subscription. At most one subscription per user is ever "active";
// the upgrade transition enforces this with a conditional retirement
// of the previous row.
type Subscription struct {
	BaseModel
	UserID             string             `gorm:"not null;index" json:"user_id"`
	PlanID             string             `gorm:"not null;index" json:"plan_id"`
	PlanName           string             `gorm:"not null" json:"plan_name"`
	PlanPrice          float64            `gorm:"not null" json:"plan_price"`
	BillingCycle       BillingCycle       `gorm:"not null;default:'monthly'" json:"billing_cycle"`
	DiscountPercentage int                `gorm:"not null" json:"discount_percentage"`
	Status             SubscriptionStatus `gorm:"not null;default:'active';index" json:"status"`
	StartDate          time.Time          `gorm:"not null" json:"start_date"`
	EndDate            time.Time          `gorm:"not null" json:"end_date"`
	RazorpayOrderID    *string            `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID  *string            `json:"razorpay_payment_id,omitempty"`
}

// IsCurrent reports whether the subscription is active and not past its
// end date at the given instant. Natural expiry is reflected lazily;
// the status flip to "expired" belongs to the subscription worker.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.EndDate)
}
