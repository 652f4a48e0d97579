package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carebook_backend/internal/models"
)

func plan(name string, monthly float64, discount int, active bool) models.MembershipPlan {
	return models.MembershipPlan{
		Name:               name,
		PriceMonthly:       monthly,
		DiscountPercentage: discount,
		IsActive:           active,
	}
}

func testCatalog() []models.MembershipPlan {
	return []models.MembershipPlan{
		plan("Metal", 199, 5, true),
		plan("Silver", 499, 10, true),
		plan("Gold", 999, 20, true),
		plan("Platinum", 1999, 30, true),
	}
}

func TestUpgradeCandidates_StrictlyHigherRankOnly(t *testing.T) {
	candidates := UpgradeCandidates(testCatalog(), "Silver")

	assert.Len(t, candidates, 2)
	assert.Equal(t, "Gold", candidates[0].Name)
	assert.Equal(t, "Platinum", candidates[1].Name)
}

func TestUpgradeCandidates_TopTierHasNone(t *testing.T) {
	assert.Empty(t, UpgradeCandidates(testCatalog(), "Platinum"))
}

func TestUpgradeCandidates_SkipsInactiveAndUnknownPlans(t *testing.T) {
	catalog := testCatalog()
	catalog[2].IsActive = false // Gold retired from sale
	catalog = append(catalog, plan("Diamond", 4999, 50, true))

	candidates := UpgradeCandidates(catalog, "Silver")

	assert.Len(t, candidates, 1)
	assert.Equal(t, "Platinum", candidates[0].Name)
}

func TestUpgradeCandidates_UnknownCurrentPlanOffersFullLadder(t *testing.T) {
	// An unranked current plan name ranks 0, so every known tier is above it.
	candidates := UpgradeCandidates(testCatalog(), "legacy-promo")

	assert.Len(t, candidates, 4)
	assert.Equal(t, "Metal", candidates[0].Name)
}

func TestRemainingDays(t *testing.T) {
	today := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, RemainingDays(today.AddDate(0, 0, 10), today))
	assert.Equal(t, 0, RemainingDays(today, today))
	assert.Equal(t, 0, RemainingDays(today.AddDate(0, 0, -5), today))
	// Partial days count as whole elapsed days only.
	assert.Equal(t, 1, RemainingDays(today.Add(36*time.Hour), today))
}

func silverSub(endDate time.Time) models.Subscription {
	return models.Subscription{
		PlanName:           "Silver",
		PlanPrice:          499,
		DiscountPercentage: 10,
		Status:             models.SubscriptionStatusActive,
		EndDate:            endDate,
	}
}

func TestComputeUpgradeCost_MidCycle(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := silverSub(today.AddDate(0, 0, 10))
	gold := plan("Gold", 999, 20, true)

	q := ComputeUpgradeCost(sub, gold, today)

	assert.Equal(t, 10, q.RemainingDays)
	assert.Equal(t, float64(166), q.CreditFromCurrent) // round(499/30*10)
	assert.Equal(t, float64(999), q.NewPlanPrice)
	assert.Equal(t, float64(833), q.UpgradePrice)
	assert.Equal(t, 10, q.DiscountGain)
}

func TestComputeUpgradeCost_ExpiredCycleIsFullPrice(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := silverSub(today.AddDate(0, 0, -3))
	gold := plan("Gold", 999, 20, true)

	q := ComputeUpgradeCost(sub, gold, today)

	assert.Equal(t, 0, q.RemainingDays)
	assert.Equal(t, float64(0), q.CreditFromCurrent)
	assert.Equal(t, float64(999), q.UpgradePrice)
}

func TestComputeUpgradeCost_CreditExceedsPriceMakesItFree(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := models.Subscription{
		PlanName:           "Gold",
		PlanPrice:          2000,
		DiscountPercentage: 20,
		EndDate:            today.AddDate(0, 0, 29),
	}
	target := plan("Platinum", 999, 30, true)

	q := ComputeUpgradeCost(sub, target, today)

	assert.Equal(t, float64(1933), q.CreditFromCurrent) // round(2000/30*29)
	assert.Equal(t, float64(0), q.UpgradePrice)         // never negative, no refund
}

func TestComputeUpgradeCost_YearlyCycleStillCreditedAtMonthlyRate(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := silverSub(today.AddDate(0, 0, 10))
	sub.BillingCycle = models.BillingCycleYearly

	q := ComputeUpgradeCost(sub, plan("Gold", 999, 20, true), today)

	// The 30-day nominal month applies regardless of the billing cycle.
	assert.Equal(t, float64(166), q.CreditFromCurrent)
}

func TestComputeUpgradeCost_Idempotent(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := silverSub(today.AddDate(0, 0, 14))
	gold := plan("Gold", 999, 20, true)

	assert.Equal(t, ComputeUpgradeCost(sub, gold, today), ComputeUpgradeCost(sub, gold, today))
}
