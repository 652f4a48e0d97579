package pricing

import (
	"sort"
	"time"

	"carebook_backend/internal/models"
)

// nominalMonthDays is the cycle length the pro-ration credit is spread
// over. Every billing cycle is treated as a 30-day month regardless of
// calendar month length or yearly billing; this matches the platform's
// historical behavior and must not be changed without a product
// decision.
const nominalMonthDays = 30

// UpgradeQuote is the cost breakdown for switching the current
// subscription to a higher-tier plan today.
type UpgradeQuote struct {
	RemainingDays     int     `json:"remaining_days"`
	CreditFromCurrent float64 `json:"credit_from_current"`
	NewPlanPrice      float64 `json:"new_plan_price"`
	UpgradePrice      float64 `json:"upgrade_price"`
	DiscountGain      int     `json:"discount_gain"`
}

// UpgradeCandidates filters the catalog to valid upgrade targets for
// the current plan: active plans of a strictly higher tier rank.
// Unranked plans are never offered. The result is ordered by ascending
// rank (cheapest next tier first), stable within equal rank so a
// price-sorted catalog keeps its order.
func UpgradeCandidates(catalog []models.MembershipPlan, currentPlanName string) []models.MembershipPlan {
	currentRank := RankOf(currentPlanName)

	var out []models.MembershipPlan
	for _, plan := range catalog {
		rank := RankOf(plan.Name)
		if rank == TierUnknown {
			continue
		}
		if plan.IsActive && rank > currentRank {
			out = append(out, plan)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return RankOf(out[i].Name) < RankOf(out[j].Name)
	})
	return out
}

// RemainingDays counts the whole days between today and the
// subscription end date. A passed end date yields 0: the upgrade then
// degenerates to a fresh purchase at full price, which is accepted
// behavior rather than an error.
func RemainingDays(endDate, today time.Time) int {
	days := int(endDate.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ComputeUpgradeCost prices a switch from the current subscription to
// the target plan at the given instant.
//
// The unused portion of the current cycle is credited at
// planPrice/30 per remaining day, and upgrades are always priced
// against the target's monthly rate, even for yearly subscribers.
// A credit larger than the new plan price makes the upgrade free; it
// never produces a refund.
func ComputeUpgradeCost(sub models.Subscription, target models.MembershipPlan, today time.Time) UpgradeQuote {
	remaining := RemainingDays(sub.EndDate, today)
	credit := roundHalfUp(sub.PlanPrice / nominalMonthDays * float64(remaining))

	newPrice := target.PriceMonthly
	upgradePrice := newPrice - credit
	if upgradePrice < 0 {
		upgradePrice = 0
	}

	return UpgradeQuote{
		RemainingDays:     remaining,
		CreditFromCurrent: credit,
		NewPlanPrice:      newPrice,
		UpgradePrice:      upgradePrice,
		DiscountGain:      target.DiscountPercentage - sub.DiscountPercentage,
	}
}
