package subscription

import (
	"context"

	"gorm.io/gorm"

	"carebook_backend/internal/models"
)

// PlanRepository reads and writes the membership plan catalog.
type PlanRepository interface {
	FindActive(ctx context.Context) ([]models.MembershipPlan, error)
	FindByID(ctx context.Context, id string) (*models.MembershipPlan, error)
	Create(ctx context.Context, plan *models.MembershipPlan) error
	Update(ctx context.Context, plan *models.MembershipPlan) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// FindActive returns purchasable plans ordered by ascending monthly
// price. The catalog is small enough to load in full.
func (r *planRepository) FindActive(ctx context.Context) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_monthly ASC").
		Find(&plans).Error
	return plans, err
}

func (r *planRepository) FindByID(ctx context.Context, id string) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) Create(ctx context.Context, plan *models.MembershipPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *models.MembershipPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}
