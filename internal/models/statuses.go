package models

type UserRole string
type SubscriptionStatus string
type BillingCycle string
type PaymentStatus string
type PaymentPurpose string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusUpgraded  SubscriptionStatus = "upgraded"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	PaymentPurposePurchase PaymentPurpose = "purchase"
	PaymentPurposeUpgrade  PaymentPurpose = "upgrade"
)
