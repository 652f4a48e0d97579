package workers

import (
	"context"
	"time"

	"carebook_backend/internal/logger"
	subscriptionrepo "carebook_backend/internal/repositories/subscription"
)

const (
	expirySweepInterval         = 6 * time.Hour
	reconciliationSweepInterval = 1 * time.Hour
)

// SubscriptionWorker runs the background sweeps over membership rows.
type SubscriptionWorker struct {
	subRepo subscriptionrepo.SubscriptionRepository
}

func NewSubscriptionWorker(subRepo subscriptionrepo.SubscriptionRepository) *SubscriptionWorker {
	return &SubscriptionWorker{subRepo: subRepo}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.expireLapsedMemberships(ctx)
	go w.reconcileInterruptedUpgrades(ctx)
}

// expireLapsedMemberships flips active memberships whose end date has
// passed to expired.
func (w *SubscriptionWorker) expireLapsedMemberships(ctx context.Context) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription expiry worker stopped")
			return
		case <-ticker.C:
			count, err := w.subRepo.ExpireDue(ctx, time.Now())
			if err != nil {
				logger.WorkerLog("subscription", "expire_due", err)
				continue
			}
			if count > 0 {
				logger.Info("Marked memberships as expired", "count", count)
			}
		}
	}
}

// reconcileInterruptedUpgrades reports members whose old membership was
// retired but whose replacement row never landed, so support can restore
// them. The upgrade runs in one transaction, so this only fires on rows
// written by older releases or manual edits.
func (w *SubscriptionWorker) reconcileInterruptedUpgrades(ctx context.Context) {
	ticker := time.NewTicker(reconciliationSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Upgrade reconciliation worker stopped")
			return
		case <-ticker.C:
			orphans, err := w.subRepo.FindRetiredWithoutSuccessor(ctx)
			if err != nil {
				logger.WorkerLog("subscription", "reconcile_upgrades", err)
				continue
			}
			for _, sub := range orphans {
				logger.Error("Retired membership has no successor, needs manual restore",
					"subscription_id", sub.ID,
					"user_id", sub.UserID,
					"plan_id", sub.PlanID,
				)
			}
		}
	}
}
