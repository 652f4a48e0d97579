package subscription

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"carebook_backend/internal/models"
)

// ErrNotCurrent is returned by ExecuteUpgrade when the subscription to
// retire was no longer the user's active row; a concurrent request got
// there first.
var ErrNotCurrent = errors.New("subscription is no longer active")

// SubscriptionRepository persists membership subscriptions.
type SubscriptionRepository interface {
	FindActiveByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	FindByID(ctx context.Context, id string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	ExecuteUpgrade(ctx context.Context, currentID string, next *models.Subscription) error
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	FindRetiredWithoutSuccessor(ctx context.Context) ([]models.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// FindActiveByUserID returns the user's current active subscription,
// latest first when data is dirty and more than one exists.
func (r *subscriptionRepository) FindActiveByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// ExecuteUpgrade retires the current subscription and inserts its
// successor in one transaction.
//
// The retirement is conditioned on the row still being active, so two
// racing upgrades cannot both succeed: the loser matches no row and
// gets ErrNotCurrent, and no reader ever observes two active
// subscriptions for the same user.
func (r *subscriptionRepository) ExecuteUpgrade(ctx context.Context, currentID string, next *models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", currentID, models.SubscriptionStatusActive).
			Update("status", models.SubscriptionStatusUpgraded)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotCurrent
		}
		return tx.Create(next).Error
	})
}

// ExpireDue flips active subscriptions whose end date has passed to
// "expired". Invoked by the subscription worker.
func (r *subscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, now).
		Update("status", models.SubscriptionStatusExpired)
	return res.RowsAffected, res.Error
}

// FindRetiredWithoutSuccessor lists upgraded subscriptions whose owner
// has no active row left. Such rows can only appear if an upgrade
// transaction was interrupted mid-flight; the worker reports them for
// support follow-up.
func (r *subscriptionRepository) FindRetiredWithoutSuccessor(ctx context.Context) ([]models.Subscription, error) {
	var orphans []models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SubscriptionStatusUpgraded).
		Where("user_id NOT IN (?)",
			r.db.Model(&models.Subscription{}).
				Select("user_id").
				Where("status = ?", models.SubscriptionStatusActive),
		).
		Find(&orphans).Error
	return orphans, err
}
