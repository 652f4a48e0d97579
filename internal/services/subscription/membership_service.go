package subscription

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"carebook_backend/internal/appErrors"
	"carebook_backend/internal/dto"
	"carebook_backend/internal/email"
	"carebook_backend/internal/logger"
	"carebook_backend/internal/models"
	"carebook_backend/internal/pricing"
	subscriptionrepo "carebook_backend/internal/repositories/subscription"
	"carebook_backend/internal/services/payment"
)

const yearlyCycleDays = 365

// MembershipService orchestrates the subscription pricing engine:
// booking discount quotes, purchase and upgrade checkout, and the
// active -> upgraded state transition. Session identity (userID) is an
// explicit parameter on every entry point; session lifecycle belongs
// to the auth collaborator.
type MembershipService interface {
	GetCurrent(ctx context.Context, userID string) (*models.Subscription, error)
	QuoteBooking(ctx context.Context, userID string, amount float64) (pricing.DiscountQuote, error)

	Subscribe(ctx context.Context, userID, userEmail string, req *dto.SubscribeRequest) (*dto.CheckoutResult, error)
	ConfirmPurchase(ctx context.Context, userID, userEmail string, req *dto.VerifyPaymentRequest) (*models.Subscription, error)

	UpgradeOptions(ctx context.Context, userID string) ([]dto.UpgradeOption, error)
	Upgrade(ctx context.Context, userID, userEmail string, req *dto.UpgradeRequest) (*dto.CheckoutResult, error)
	ConfirmUpgrade(ctx context.Context, userID, userEmail string, req *dto.VerifyPaymentRequest) (*models.Subscription, error)

	ReportPaymentFailure(ctx context.Context, userID string, orderID string) error
}

type membershipService struct {
	planRepo    subscriptionrepo.PlanRepository
	subRepo     subscriptionrepo.SubscriptionRepository
	paymentRepo subscriptionrepo.PaymentRepository
	gateway     payment.Gateway
	mailer      email.Provider
	currency    string

	now func() time.Time
}

func NewMembershipService(
	planRepo subscriptionrepo.PlanRepository,
	subRepo subscriptionrepo.SubscriptionRepository,
	paymentRepo subscriptionrepo.PaymentRepository,
	gateway payment.Gateway,
	mailer email.Provider,
	currency string,
) MembershipService {
	return &membershipService{
		planRepo:    planRepo,
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		mailer:      mailer,
		currency:    currency,
		now:         time.Now,
	}
}

// GetCurrent returns the user's active subscription.
func (s *membershipService) GetCurrent(ctx context.Context, userID string) (*models.Subscription, error) {
	sub, err := s.subRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		if appErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrNoActiveMembership
		}
		return nil, appErrors.DatabaseError(err)
	}
	return sub, nil
}

// QuoteBooking applies the member's snapshot discount to a booking
// amount. Non-members and lapsed members get a plain 0% quote; a
// checkout path never errors over membership state.
func (s *membershipService) QuoteBooking(ctx context.Context, userID string, amount float64) (pricing.DiscountQuote, error) {
	sub, err := s.subRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		if appErrors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.ComputeDiscount(amount, 0), nil
		}
		return pricing.DiscountQuote{}, appErrors.DatabaseError(err)
	}
	if !sub.IsCurrent(s.now()) {
		return pricing.ComputeDiscount(amount, 0), nil
	}
	return pricing.ComputeDiscount(amount, sub.DiscountPercentage), nil
}

// Subscribe starts a membership purchase. Zero-cost plans activate
// immediately; anything else opens a gateway order for the
// engine-computed amount.
func (s *membershipService) Subscribe(ctx context.Context, userID, userEmail string, req *dto.SubscribeRequest) (*dto.CheckoutResult, error) {
	plan, err := s.purchasablePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.subRepo.FindActiveByUserID(ctx, userID); err == nil && existing.IsCurrent(s.now()) {
		return nil, appErrors.ErrMembershipExists
	} else if err != nil && !appErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.DatabaseError(err)
	}

	cycle := models.BillingCycle(req.BillingCycle)
	price := plan.PriceMonthly
	if cycle == models.BillingCycleYearly {
		price = plan.PriceYearly
	}

	if price <= 0 {
		sub, err := s.activate(ctx, userID, plan, cycle, price, nil, nil)
		if err != nil {
			return nil, err
		}
		s.sendReceipt(ctx, userEmail, sub, 0, "", false)
		return &dto.CheckoutResult{Membership: sub}, nil
	}

	order, err := s.openOrder(ctx, userID, plan, cycle, price, models.PaymentPurposePurchase)
	if err != nil {
		return nil, err
	}
	return &dto.CheckoutResult{Order: order}, nil
}

// ConfirmPurchase verifies the checkout callback and activates the
// membership. Verification failure is payment failure, whatever the
// client-side widget reported.
func (s *membershipService) ConfirmPurchase(ctx context.Context, userID, userEmail string, req *dto.VerifyPaymentRequest) (*models.Subscription, error) {
	txn, err := s.verifiedTransaction(ctx, userID, models.PaymentPurposePurchase, req)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByID(ctx, txn.PlanID)
	if err != nil {
		return nil, appErrors.ErrUpgradeIncomplete.WithError(err)
	}

	sub, err := s.activate(ctx, userID, plan, txn.BillingCycle, txn.Amount, &req.RazorpayOrderID, &req.RazorpayPaymentID)
	if err != nil {
		// Money is captured at this point; this failure mode is distinct
		// from "payment failed, try again".
		return nil, appErrors.ErrUpgradeIncomplete.WithError(err)
	}

	s.sendReceipt(ctx, userEmail, sub, txn.Amount, req.RazorpayOrderID, false)
	return sub, nil
}

// UpgradeOptions lists the valid upgrade targets for the user's active
// subscription, each with its pro-rated cost today.
func (s *membershipService) UpgradeOptions(ctx context.Context, userID string) ([]dto.UpgradeOption, error) {
	sub, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}

	today := s.now()
	var options []dto.UpgradeOption
	for _, plan := range pricing.UpgradeCandidates(catalog, sub.PlanName) {
		options = append(options, dto.UpgradeOption{
			Plan:  plan,
			Quote: pricing.ComputeUpgradeCost(*sub, plan, today),
		})
	}
	return options, nil
}

// Upgrade prices a switch to the target plan. A fully-credited upgrade
// skips the gateway and commits immediately with no payment reference;
// otherwise a gateway order is opened for the difference.
func (s *membershipService) Upgrade(ctx context.Context, userID, userEmail string, req *dto.UpgradeRequest) (*dto.CheckoutResult, error) {
	sub, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, err := s.purchasablePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if pricing.RankOf(target.Name) <= pricing.RankOf(sub.PlanName) {
		return nil, appErrors.ErrNotUpgradeable
	}

	quote := pricing.ComputeUpgradeCost(*sub, *target, s.now())

	if quote.UpgradePrice <= 0 {
		next, err := s.executeUpgrade(ctx, sub, target, nil, nil)
		if err != nil {
			return nil, err
		}
		s.sendReceipt(ctx, userEmail, next, 0, "", true)
		return &dto.CheckoutResult{Membership: next, Quote: &quote}, nil
	}

	order, err := s.openOrder(ctx, userID, target, models.BillingCycleMonthly, quote.UpgradePrice, models.PaymentPurposeUpgrade)
	if err != nil {
		return nil, err
	}
	return &dto.CheckoutResult{Order: order, Quote: &quote}, nil
}

// ConfirmUpgrade verifies the checkout callback and commits the
// upgrade transition.
func (s *membershipService) ConfirmUpgrade(ctx context.Context, userID, userEmail string, req *dto.VerifyPaymentRequest) (*models.Subscription, error) {
	txn, err := s.verifiedTransaction(ctx, userID, models.PaymentPurposeUpgrade, req)
	if err != nil {
		return nil, err
	}

	sub, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, appErrors.ErrUpgradeIncomplete.WithError(err)
	}

	target, err := s.planRepo.FindByID(ctx, txn.PlanID)
	if err != nil {
		return nil, appErrors.ErrUpgradeIncomplete.WithError(err)
	}

	next, err := s.executeUpgrade(ctx, sub, target, &req.RazorpayOrderID, &req.RazorpayPaymentID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrUpgradeConflict) {
			return nil, err
		}
		// Payment captured but the transition did not commit.
		return nil, appErrors.ErrUpgradeIncomplete.WithError(err)
	}

	s.sendReceipt(ctx, userEmail, next, txn.Amount, req.RazorpayOrderID, true)
	return next, nil
}

// ReportPaymentFailure records a failed or dismissed checkout. This is
// non-fatal and changes no subscription state.
func (s *membershipService) ReportPaymentFailure(ctx context.Context, userID string, orderID string) error {
	txn, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if appErrors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrPaymentNotFound
		}
		return appErrors.DatabaseError(err)
	}
	if txn.UserID != userID || txn.Status != models.PaymentStatusPending {
		return nil
	}
	if err := s.paymentRepo.MarkFailed(ctx, orderID); err != nil {
		return appErrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "checkout not completed", "order_id", orderID, "purpose", txn.Purpose)
	return nil
}

// ============================================
// Internals
// ============================================

func (s *membershipService) purchasablePlan(ctx context.Context, planID string) (*models.MembershipPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if appErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPlanNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}
	if !plan.IsActive {
		return nil, appErrors.ErrPlanNotActive
	}
	return plan, nil
}

// openOrder registers a gateway order and the matching pending
// transaction, so the verified amount can be re-derived server-side.
func (s *membershipService) openOrder(ctx context.Context, userID string, plan *models.MembershipPlan, cycle models.BillingCycle, amount float64, purpose models.PaymentPurpose) (*payment.Order, error) {
	order, err := s.gateway.CreateOrder(ctx, amount, fmt.Sprintf("%s-%s", purpose, plan.Name), map[string]string{
		"purpose": string(purpose),
		"plan":    plan.Name,
		"user_id": userID,
	})
	if err != nil {
		return nil, appErrors.ExternalServiceError("razorpay", err)
	}

	txn := &models.PaymentTransaction{
		UserID:          userID,
		Purpose:         purpose,
		PlanID:          plan.ID,
		BillingCycle:    cycle,
		Amount:          amount,
		Currency:        s.currency,
		Status:          models.PaymentStatusPending,
		RazorpayOrderID: order.ID,
	}
	if err := s.paymentRepo.Create(ctx, txn); err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return order, nil
}

// verifiedTransaction validates the callback against the pending
// ledger and the HMAC signature, then marks the order paid.
func (s *membershipService) verifiedTransaction(ctx context.Context, userID string, purpose models.PaymentPurpose, req *dto.VerifyPaymentRequest) (*models.PaymentTransaction, error) {
	txn, err := s.paymentRepo.FindByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		if appErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrPaymentNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}
	if txn.UserID != userID || txn.Purpose != purpose {
		return nil, appErrors.ErrPaymentNotFound
	}
	if txn.Status != models.PaymentStatusPending {
		return nil, appErrors.ErrPaymentNotCompleted
	}

	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.paymentRepo.MarkFailed(ctx, req.RazorpayOrderID); err != nil {
			logger.CtxWithError(ctx, "failed to mark payment failed", err, "order_id", req.RazorpayOrderID)
		}
		return nil, appErrors.ErrPaymentVerificationFailed
	}

	if err := s.paymentRepo.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, s.now()); err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return txn, nil
}

// activate inserts a fresh subscription with snapshot pricing.
func (s *membershipService) activate(ctx context.Context, userID string, plan *models.MembershipPlan, cycle models.BillingCycle, pricePaid float64, orderID, paymentID *string) (*models.Subscription, error) {
	now := s.now()
	validity := plan.ValidityDays
	if cycle == models.BillingCycleYearly {
		validity = yearlyCycleDays
	}

	sub := &models.Subscription{
		UserID:             userID,
		PlanID:             plan.ID,
		PlanName:           plan.Name,
		PlanPrice:          pricePaid,
		BillingCycle:       cycle,
		DiscountPercentage: plan.DiscountPercentage,
		Status:             models.SubscriptionStatusActive,
		StartDate:          now,
		EndDate:            now.AddDate(0, 0, validity),
		RazorpayOrderID:    orderID,
		RazorpayPaymentID:  paymentID,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// executeUpgrade commits the active -> upgraded transition. The new
// subscription inherits the retired cycle's end date exactly; that
// continuity is what makes this an upgrade rather than a fresh
// purchase. A lost race maps to ErrUpgradeConflict and leaves no
// duplicate active row.
func (s *membershipService) executeUpgrade(ctx context.Context, current *models.Subscription, target *models.MembershipPlan, orderID, paymentID *string) (*models.Subscription, error) {
	next := &models.Subscription{
		UserID:             current.UserID,
		PlanID:             target.ID,
		PlanName:           target.Name,
		PlanPrice:          target.PriceMonthly,
		BillingCycle:       models.BillingCycleMonthly,
		DiscountPercentage: target.DiscountPercentage,
		Status:             models.SubscriptionStatusActive,
		StartDate:          s.now(),
		EndDate:            current.EndDate,
		RazorpayOrderID:    orderID,
		RazorpayPaymentID:  paymentID,
	}

	if err := s.subRepo.ExecuteUpgrade(ctx, current.ID, next); err != nil {
		if appErrors.Is(err, subscriptionrepo.ErrNotCurrent) {
			return nil, appErrors.ErrUpgradeConflict
		}
		return nil, appErrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "membership upgraded",
		"user_id", current.UserID,
		"from_plan", current.PlanName,
		"to_plan", target.Name,
		"end_date", next.EndDate,
	)
	return next, nil
}

func (s *membershipService) sendReceipt(ctx context.Context, to string, sub *models.Subscription, amount float64, orderID string, upgraded bool) {
	if to == "" || s.mailer == nil {
		return
	}
	err := s.mailer.SendMembershipReceipt(to, email.ReceiptData{
		PlanName: sub.PlanName,
		Amount:   amount,
		Currency: s.currency,
		OrderID:  orderID,
		EndDate:  sub.EndDate.Format("02 Jan 2006"),
		Upgraded: upgraded,
	})
	if err != nil {
		logger.CtxWithError(ctx, "receipt email failed", err, "plan", sub.PlanName)
	}
}
