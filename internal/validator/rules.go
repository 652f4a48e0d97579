package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"carebook_backend/internal/models"
	"carebook_backend/internal/pricing"
)

// registerCustomRules registers the platform's custom validation tags
// on the given validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a misconfigured binary.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-tier': plan name must rank as a known membership tier
	mustRegister("is-tier", validateTier)

	// 'is-billing-cycle': monthly or yearly
	mustRegister("is-billing-cycle", validateBillingCycle)
}

func validateTier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	return pricing.RankOf(value) != pricing.TierUnknown
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.BillingCycle(value) {
	case models.BillingCycleMonthly, models.BillingCycleYearly:
		return true
	default:
		return false
	}
}
