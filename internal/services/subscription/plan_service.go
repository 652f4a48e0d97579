package subscription

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"carebook_backend/internal/appErrors"
	"carebook_backend/internal/dto"
	"carebook_backend/internal/models"
	"carebook_backend/internal/pricing"
	subscriptionrepo "carebook_backend/internal/repositories/subscription"
)

// PlanService owns the membership plan catalog.
type PlanService interface {
	GetPlans(ctx context.Context) ([]models.MembershipPlan, error)
	GetPlan(ctx context.Context, planID string) (*models.MembershipPlan, error)
	CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*models.MembershipPlan, error)
	UpdatePlan(ctx context.Context, planID string, req *dto.UpdatePlanRequest) (*models.MembershipPlan, error)
}

type planService struct {
	planRepo subscriptionrepo.PlanRepository
}

func NewPlanService(planRepo subscriptionrepo.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

func (s *planService) GetPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return plans, nil
}

func (s *planService) GetPlan(ctx context.Context, planID string) (*models.MembershipPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if appErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPlanNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}
	return plan, nil
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*models.MembershipPlan, error) {
	// Unranked tier names are rejected here, at the data-entry boundary,
	// so the pricing engine never sees one.
	if pricing.RankOf(req.Name) == pricing.TierUnknown {
		return nil, appErrors.ErrUnknownTier
	}

	perksJSON, err := json.Marshal(req.Perks)
	if err != nil {
		return nil, appErrors.NewBadRequestError("Invalid perks payload")
	}

	plan := &models.MembershipPlan{
		Name:               req.Name,
		PriceMonthly:       req.PriceMonthly,
		PriceYearly:        req.PriceYearly,
		DiscountPercentage: req.DiscountPercentage,
		ValidityDays:       req.ValidityDays,
		Perks:              datatypes.JSON(perksJSON),
		IsActive:           req.IsActive,
		IsPopular:          req.IsPopular,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return plan, nil
}

func (s *planService) UpdatePlan(ctx context.Context, planID string, req *dto.UpdatePlanRequest) (*models.MembershipPlan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if req.PriceMonthly != nil {
		plan.PriceMonthly = *req.PriceMonthly
	}
	if req.PriceYearly != nil {
		plan.PriceYearly = *req.PriceYearly
	}
	if req.DiscountPercentage != nil {
		plan.DiscountPercentage = *req.DiscountPercentage
	}
	if req.ValidityDays != nil {
		plan.ValidityDays = *req.ValidityDays
	}
	if req.Perks != nil {
		perksJSON, err := json.Marshal(req.Perks)
		if err != nil {
			return nil, appErrors.NewBadRequestError("Invalid perks payload")
		}
		plan.Perks = datatypes.JSON(perksJSON)
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.IsPopular != nil {
		plan.IsPopular = *req.IsPopular
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return plan, nil
}
