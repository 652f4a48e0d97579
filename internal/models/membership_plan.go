package models

import (
	"gorm.io/datatypes"
)

// MembershipPlan is a purchasable tier. Tier generosity is ordered by
// pricing.RankOf(Name): Metal < Silver < Gold < Platinum.
type MembershipPlan struct {
	BaseModel
	Name               string         `gorm:"not null;uniqueIndex" json:"name"`
	PriceMonthly       float64        `gorm:"not null" json:"price_monthly"`
	PriceYearly        float64        `gorm:"not null" json:"price_yearly"`
	DiscountPercentage int            `gorm:"not null" json:"discount_percentage"` // 0-100
	ValidityDays       int            `gorm:"not null;default:30" json:"validity_days"`
	Perks              datatypes.JSON `gorm:"type:jsonb" json:"perks"` // {"priority_support": true, ...}
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	IsPopular          bool           `gorm:"default:false" json:"is_popular"` // display hint only
}
