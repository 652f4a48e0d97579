package dto

// CreatePlanRequest creates a membership plan. The name must be one of
// the four ranked tiers; unranked names are rejected at this boundary
// so they can never reach the pricing engine.
type CreatePlanRequest struct {
	Name               string                 `json:"name" validate:"required,is-tier"`
	PriceMonthly       float64                `json:"price_monthly" validate:"gte=0"`
	PriceYearly        float64                `json:"price_yearly" validate:"gte=0"`
	DiscountPercentage int                    `json:"discount_percentage" validate:"gte=0,lte=100"`
	ValidityDays       int                    `json:"validity_days" validate:"gt=0"`
	Perks              map[string]interface{} `json:"perks"`
	IsActive           bool                   `json:"is_active"`
	IsPopular          bool                   `json:"is_popular"`
}

// UpdatePlanRequest patches a plan. Price and discount changes only
// affect future purchases; existing subscriptions keep their snapshot.
type UpdatePlanRequest struct {
	PriceMonthly       *float64               `json:"price_monthly" validate:"omitempty,gte=0"`
	PriceYearly        *float64               `json:"price_yearly" validate:"omitempty,gte=0"`
	DiscountPercentage *int                   `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	ValidityDays       *int                   `json:"validity_days" validate:"omitempty,gt=0"`
	Perks              map[string]interface{} `json:"perks"`
	IsActive           *bool                  `json:"is_active"`
	IsPopular          *bool                  `json:"is_popular"`
}
