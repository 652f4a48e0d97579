package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiscount_Checkout(t *testing.T) {
	// Booking of 2000 with a 15% membership discount.
	q := ComputeDiscount(2000, 15)

	assert.Equal(t, float64(300), q.Savings)
	assert.Equal(t, float64(1700), q.Payable)
	assert.Equal(t, 15, q.DiscountPercentage)
}

func TestComputeDiscount_RoundsHalfUp(t *testing.T) {
	// 333 * 10% = 33.3 -> 33; 335 * 15% = 50.25 -> 50; 330 * 15% = 49.5 -> 50
	assert.Equal(t, float64(33), ComputeDiscount(333, 10).Savings)
	assert.Equal(t, float64(50), ComputeDiscount(335, 15).Savings)
	assert.Equal(t, float64(50), ComputeDiscount(330, 15).Savings)
}

func TestComputeDiscount_SavingsPlusPayableEqualsAmount(t *testing.T) {
	amounts := []float64{0, 1, 99, 100, 499, 999.5, 2000, 123456}
	for _, amount := range amounts {
		for pct := 0; pct <= 100; pct += 5 {
			q := ComputeDiscount(amount, pct)
			assert.Equal(t, amount, q.Savings+q.Payable, "amount=%v pct=%d", amount, pct)
			assert.GreaterOrEqual(t, q.Savings, float64(0))
			assert.LessOrEqual(t, q.Savings, amount)
		}
	}
}

func TestComputeDiscount_ClampsBadInputs(t *testing.T) {
	// A broken discount row upstream must not break checkout.
	assert.Equal(t, float64(0), ComputeDiscount(1000, -20).Savings)
	assert.Equal(t, float64(1000), ComputeDiscount(1000, 150).Savings)
	assert.Equal(t, float64(0), ComputeDiscount(-500, 15).Payable)
}

func TestComputeDiscount_Idempotent(t *testing.T) {
	first := ComputeDiscount(1234, 17)
	second := ComputeDiscount(1234, 17)
	assert.Equal(t, first, second)
}

func TestRankOf(t *testing.T) {
	assert.Equal(t, TierMetal, RankOf("Metal"))
	assert.Equal(t, TierSilver, RankOf("silver"))
	assert.Equal(t, TierGold, RankOf(" Gold "))
	assert.Equal(t, TierPlatinum, RankOf("PLATINUM"))
	assert.Equal(t, TierUnknown, RankOf("Diamond"))
	assert.Equal(t, TierUnknown, RankOf(""))
}
