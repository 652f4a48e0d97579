package subscription

import (
	"context"
	"time"

	"gorm.io/gorm"

	"carebook_backend/internal/models"
)

// PaymentRepository persists the pending-order ledger for the payment
// gateway.
type PaymentRepository interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	FindByOrderID(ctx context.Context, orderID string) (*models.PaymentTransaction, error)
	MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) error
	MarkFailed(ctx context.Context, orderID string) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.WithContext(ctx).First(&txn, "razorpay_order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("razorpay_order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusPaid,
			"razorpay_payment_id": paymentID,
			"paid_at":             paidAt,
		}).Error
}

func (r *paymentRepository) MarkFailed(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("razorpay_order_id = ?", orderID).
		Update("status", models.PaymentStatusFailed).Error
}
