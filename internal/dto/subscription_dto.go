package dto

import (
	"carebook_backend/internal/models"
	"carebook_backend/internal/pricing"
	"carebook_backend/internal/services/payment"
)

type SubscribeRequest struct {
	PlanID       string `json:"plan_id" validate:"required,uuid4"`
	BillingCycle string `json:"billing_cycle" validate:"required,is-billing-cycle"`
}

type UpgradeRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid4"`
}

// CheckoutResult is the outcome of a subscribe or upgrade request.
// Zero-cost flows activate immediately and carry the membership; paid
// flows carry the gateway order awaiting client-side collection.
type CheckoutResult struct {
	Membership *models.Subscription  `json:"membership,omitempty"`
	Order      *payment.Order        `json:"order,omitempty"`
	Quote      *pricing.UpgradeQuote `json:"quote,omitempty"`
}

// UpgradeOption is one valid upgrade target with its cost today.
type UpgradeOption struct {
	Plan  models.MembershipPlan `json:"plan"`
	Quote pricing.UpgradeQuote  `json:"quote"`
}
