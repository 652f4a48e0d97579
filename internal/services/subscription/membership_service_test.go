package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carebook_backend/internal/appErrors"
	"carebook_backend/internal/dto"
	"carebook_backend/internal/email"
	"carebook_backend/internal/models"
	subscriptionrepo "carebook_backend/internal/repositories/subscription"
	"carebook_backend/internal/services/payment"
)

// ============================================
// In-memory fakes
// ============================================

type fakePlanRepo struct {
	plans map[string]models.MembershipPlan
}

func (f *fakePlanRepo) FindActive(ctx context.Context) ([]models.MembershipPlan, error) {
	var out []models.MembershipPlan
	for _, p := range f.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) FindByID(ctx context.Context, id string) (*models.MembershipPlan, error) {
	if p, ok := f.plans[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *models.MembershipPlan) error {
	f.plans[plan.ID] = *plan
	return nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *models.MembershipPlan) error {
	f.plans[plan.ID] = *plan
	return nil
}

type fakeSubRepo struct {
	subs   map[string]*models.Subscription // by id
	nextID int
}

func (f *fakeSubRepo) FindActiveByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	var latest *models.Subscription
	for _, s := range f.subs {
		if s.UserID == userID && s.Status == models.SubscriptionStatusActive {
			if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
				latest = s
			}
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeSubRepo) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	if s, ok := f.subs[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubRepo) Create(ctx context.Context, sub *models.Subscription) error {
	f.nextID++
	if sub.ID == "" {
		sub.ID = time.Now().Format("20060102150405.000000000") + string(rune('a'+f.nextID))
	}
	cp := *sub
	f.subs[sub.ID] = &cp
	return nil
}

func (f *fakeSubRepo) ExecuteUpgrade(ctx context.Context, currentID string, next *models.Subscription) error {
	cur, ok := f.subs[currentID]
	if !ok || cur.Status != models.SubscriptionStatusActive {
		return subscriptionrepo.ErrNotCurrent
	}
	cur.Status = models.SubscriptionStatusUpgraded
	return f.Create(ctx, next)
}

func (f *fakeSubRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, s := range f.subs {
		if s.Status == models.SubscriptionStatusActive && s.EndDate.Before(now) {
			s.Status = models.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeSubRepo) FindRetiredWithoutSuccessor(ctx context.Context) ([]models.Subscription, error) {
	return nil, nil
}

func (f *fakeSubRepo) activeCount(userID string) int {
	n := 0
	for _, s := range f.subs {
		if s.UserID == userID && s.Status == models.SubscriptionStatusActive {
			n++
		}
	}
	return n
}

type fakePaymentRepo struct {
	txns map[string]*models.PaymentTransaction // by order id
}

func (f *fakePaymentRepo) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	cp := *txn
	f.txns[txn.RazorpayOrderID] = &cp
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentTransaction, error) {
	if t, ok := f.txns[orderID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) error {
	t := f.txns[orderID]
	t.Status = models.PaymentStatusPaid
	t.RazorpayPaymentID = paymentID
	t.PaidAt = &paidAt
	return nil
}

func (f *fakePaymentRepo) MarkFailed(ctx context.Context, orderID string) error {
	f.txns[orderID].Status = models.PaymentStatusFailed
	return nil
}

type fakeGateway struct {
	orders    int
	lastNotes map[string]string
	amounts   []float64
	validSig  string
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount float64, receipt string, notes map[string]string) (*payment.Order, error) {
	f.orders++
	f.amounts = append(f.amounts, amount)
	f.lastNotes = notes
	return &payment.Order{ID: "order_" + receipt, Amount: amount, Currency: "INR", KeyID: "rzp_test"}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == f.validSig
}

// ============================================
// Fixture
// ============================================

type fixture struct {
	svc      *membershipService
	planRepo *fakePlanRepo
	subRepo  *fakeSubRepo
	payRepo  *fakePaymentRepo
	gateway  *fakeGateway
	today    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		planRepo: &fakePlanRepo{plans: map[string]models.MembershipPlan{}},
		subRepo:  &fakeSubRepo{subs: map[string]*models.Subscription{}},
		payRepo:  &fakePaymentRepo{txns: map[string]*models.PaymentTransaction{}},
		gateway:  &fakeGateway{validSig: "sig-ok"},
		today:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	svc := NewMembershipService(f.planRepo, f.subRepo, f.payRepo, f.gateway, email.NoopProvider{}, "INR").(*membershipService)
	svc.now = func() time.Time { return f.today }
	f.svc = svc
	return f
}

func (f *fixture) addPlan(id, name string, monthly float64, discount, validityDays int) models.MembershipPlan {
	p := models.MembershipPlan{
		Name:               name,
		PriceMonthly:       monthly,
		PriceYearly:        monthly * 10,
		DiscountPercentage: discount,
		ValidityDays:       validityDays,
		IsActive:           true,
	}
	p.ID = id
	f.planRepo.plans[id] = p
	return p
}

func (f *fixture) addActiveSub(id, userID, planName string, price float64, discount, daysLeft int) *models.Subscription {
	s := &models.Subscription{
		UserID:             userID,
		PlanName:           planName,
		PlanPrice:          price,
		BillingCycle:       models.BillingCycleMonthly,
		DiscountPercentage: discount,
		Status:             models.SubscriptionStatusActive,
		StartDate:          f.today.AddDate(0, 0, daysLeft-30),
		EndDate:            f.today.AddDate(0, 0, daysLeft),
	}
	s.ID = id
	f.subRepo.subs[id] = s
	return s
}

// ============================================
// Booking quotes
// ============================================

func TestQuoteBooking_MemberDiscount(t *testing.T) {
	f := newFixture(t)
	f.addActiveSub("sub1", "user1", "Silver", 499, 15, 10)

	q, err := f.svc.QuoteBooking(context.Background(), "user1", 2000)
	require.NoError(t, err)

	assert.Equal(t, float64(300), q.Savings)
	assert.Equal(t, float64(1700), q.Payable)
}

func TestQuoteBooking_NonMemberPaysFull(t *testing.T) {
	f := newFixture(t)

	q, err := f.svc.QuoteBooking(context.Background(), "user1", 2000)
	require.NoError(t, err)

	assert.Equal(t, float64(0), q.Savings)
	assert.Equal(t, float64(2000), q.Payable)
}

func TestQuoteBooking_LapsedMemberPaysFull(t *testing.T) {
	f := newFixture(t)
	// Active status but end date already passed; worker hasn't swept yet.
	f.addActiveSub("sub1", "user1", "Silver", 499, 15, -2)

	q, err := f.svc.QuoteBooking(context.Background(), "user1", 1000)
	require.NoError(t, err)
	assert.Equal(t, float64(0), q.Savings)
}

// ============================================
// Purchase
// ============================================

func TestSubscribe_FreePlanActivatesWithoutGateway(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-free", "Metal", 0, 5, 30)

	res, err := f.svc.Subscribe(context.Background(), "user1", "u@example.com", &dto.SubscribeRequest{
		PlanID:       "plan-free",
		BillingCycle: "monthly",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Membership)
	assert.Nil(t, res.Order)
	assert.Equal(t, 0, f.gateway.orders)
	assert.Nil(t, res.Membership.RazorpayOrderID)
	assert.Equal(t, f.today.AddDate(0, 0, 30), res.Membership.EndDate)
}

func TestSubscribe_PaidPlanOpensOrderForEngineAmount(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-silver", "Silver", 499, 10, 30)

	res, err := f.svc.Subscribe(context.Background(), "user1", "u@example.com", &dto.SubscribeRequest{
		PlanID:       "plan-silver",
		BillingCycle: "monthly",
	})
	require.NoError(t, err)

	assert.Nil(t, res.Membership)
	require.NotNil(t, res.Order)
	assert.Equal(t, []float64{499}, f.gateway.amounts)

	// Pending ledger row carries the server-computed amount.
	txn, err := f.payRepo.FindByOrderID(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(499), txn.Amount)
	assert.Equal(t, models.PaymentStatusPending, txn.Status)
}

func TestSubscribe_RejectsSecondActiveMembership(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-silver", "Silver", 499, 10, 30)
	f.addActiveSub("sub1", "user1", "Metal", 199, 5, 20)

	_, err := f.svc.Subscribe(context.Background(), "user1", "", &dto.SubscribeRequest{
		PlanID:       "plan-silver",
		BillingCycle: "monthly",
	})
	assert.ErrorIs(t, err, appErrors.ErrMembershipExists)
}

func TestConfirmPurchase_BadSignatureIsPaymentFailure(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-silver", "Silver", 499, 10, 30)

	res, err := f.svc.Subscribe(context.Background(), "user1", "", &dto.SubscribeRequest{
		PlanID: "plan-silver", BillingCycle: "monthly",
	})
	require.NoError(t, err)

	_, err = f.svc.ConfirmPurchase(context.Background(), "user1", "", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   res.Order.ID,
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "forged",
	})
	assert.ErrorIs(t, err, appErrors.ErrPaymentVerificationFailed)

	// No membership was created and the order is marked failed.
	assert.Equal(t, 0, f.subRepo.activeCount("user1"))
	txn, _ := f.payRepo.FindByOrderID(context.Background(), res.Order.ID)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)
}

func TestConfirmPurchase_VerifiedActivatesMembership(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-silver", "Silver", 499, 10, 30)

	res, err := f.svc.Subscribe(context.Background(), "user1", "", &dto.SubscribeRequest{
		PlanID: "plan-silver", BillingCycle: "monthly",
	})
	require.NoError(t, err)

	sub, err := f.svc.ConfirmPurchase(context.Background(), "user1", "", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   res.Order.ID,
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig-ok",
	})
	require.NoError(t, err)

	assert.Equal(t, "Silver", sub.PlanName)
	assert.Equal(t, 10, sub.DiscountPercentage)
	require.NotNil(t, sub.RazorpayPaymentID)
	assert.Equal(t, "pay_1", *sub.RazorpayPaymentID)
	assert.Equal(t, 1, f.subRepo.activeCount("user1"))
}

// ============================================
// Upgrade
// ============================================

func TestUpgradeOptions_ListsHigherTiersWithQuotes(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-gold", "Gold", 999, 20, 30)
	f.addPlan("plan-platinum", "Platinum", 1999, 30, 30)
	f.addPlan("plan-metal", "Metal", 199, 5, 30)
	f.addActiveSub("sub1", "user1", "Silver", 499, 10, 10)

	options, err := f.svc.UpgradeOptions(context.Background(), "user1")
	require.NoError(t, err)

	require.Len(t, options, 2)
	assert.Equal(t, "Gold", options[0].Plan.Name)
	assert.Equal(t, float64(166), options[0].Quote.CreditFromCurrent)
	assert.Equal(t, float64(833), options[0].Quote.UpgradePrice)
	assert.Equal(t, "Platinum", options[1].Plan.Name)
}

func TestUpgrade_PaidPathChargesProRatedDifference(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-gold", "Gold", 999, 20, 30)
	f.addActiveSub("sub1", "user1", "Silver", 499, 10, 10)

	res, err := f.svc.Upgrade(context.Background(), "user1", "", &dto.UpgradeRequest{PlanID: "plan-gold"})
	require.NoError(t, err)

	require.NotNil(t, res.Order)
	assert.Equal(t, []float64{833}, f.gateway.amounts)
	require.NotNil(t, res.Quote)
	assert.Equal(t, 10, res.Quote.DiscountGain)
}

func TestUpgrade_FullyCreditedSkipsGatewayAndCommits(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-gold", "Gold", 999, 20, 30)
	sub := f.addActiveSub("sub1", "user1", "Silver", 2000, 10, 29)

	res, err := f.svc.Upgrade(context.Background(), "user1", "", &dto.UpgradeRequest{PlanID: "plan-gold"})
	require.NoError(t, err)

	// credit round(2000/30*29)=1933 > 999, so no gateway call at all.
	assert.Equal(t, 0, f.gateway.orders)
	require.NotNil(t, res.Membership)
	assert.Nil(t, res.Membership.RazorpayOrderID)
	assert.Nil(t, res.Membership.RazorpayPaymentID)

	// Continuity: the new cycle ends exactly when the old one would have.
	assert.Equal(t, sub.EndDate, res.Membership.EndDate)
	assert.Equal(t, 1, f.subRepo.activeCount("user1"))
	assert.Equal(t, models.SubscriptionStatusUpgraded, f.subRepo.subs["sub1"].Status)
}

func TestUpgrade_LowerOrEqualTierRejected(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-metal", "Metal", 199, 5, 30)
	f.addActiveSub("sub1", "user1", "Silver", 499, 10, 10)

	_, err := f.svc.Upgrade(context.Background(), "user1", "", &dto.UpgradeRequest{PlanID: "plan-metal"})
	assert.ErrorIs(t, err, appErrors.ErrNotUpgradeable)
}

func TestConfirmUpgrade_CommitsWithContinuity(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-gold", "Gold", 999, 20, 30)
	sub := f.addActiveSub("sub1", "user1", "Silver", 499, 10, 10)

	res, err := f.svc.Upgrade(context.Background(), "user1", "", &dto.UpgradeRequest{PlanID: "plan-gold"})
	require.NoError(t, err)

	next, err := f.svc.ConfirmUpgrade(context.Background(), "user1", "", &dto.VerifyPaymentRequest{
		RazorpayOrderID:   res.Order.ID,
		RazorpayPaymentID: "pay_9",
		RazorpaySignature: "sig-ok",
	})
	require.NoError(t, err)

	assert.Equal(t, "Gold", next.PlanName)
	assert.Equal(t, float64(999), next.PlanPrice) // snapshot of target monthly price
	assert.Equal(t, sub.EndDate, next.EndDate)
	assert.Equal(t, f.today, next.StartDate)
	assert.Equal(t, 1, f.subRepo.activeCount("user1"))
}

func TestConfirmUpgrade_RaceLoserGetsConflictNotDuplicate(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-gold", "Gold", 999, 20, 30)
	f.addPlan("plan-platinum", "Platinum", 1999, 30, 30)
	f.addActiveSub("sub1", "user1", "Silver", 499, 10, 10)

	resA, err := f.svc.Upgrade(context.Background(), "user1", "", &dto.UpgradeRequest{PlanID: "plan-gold"})
	require.NoError(t, err)

	// First submit commits and retires sub1.
	_, err = f.svc.ConfirmUpgrade(context.Background(), "user1", "", &dto.VerifyPaymentRequest{
		RazorpayOrderID: resA.Order.ID, RazorpayPaymentID: "pay_a", RazorpaySignature: "sig-ok",
	})
	require.NoError(t, err)

	// A double-submitted upgrade still holding the stale sub1 row loses the
	// conditional retirement and maps to a retryable conflict.
	stale := &models.Subscription{UserID: "user1", PlanName: "Silver"}
	stale.ID = "sub1"
	_, err = f.svc.executeUpgrade(context.Background(), stale, &models.MembershipPlan{Name: "Platinum"}, nil, nil)
	assert.ErrorIs(t, err, appErrors.ErrUpgradeConflict)

	// Exactly one active subscription survives.
	assert.Equal(t, 1, f.subRepo.activeCount("user1"))
}

// ============================================
// Payment failure reporting
// ============================================

func TestReportPaymentFailure_NonFatalAndStatePreserving(t *testing.T) {
	f := newFixture(t)
	f.addPlan("plan-gold", "Gold", 999, 20, 30)
	f.addActiveSub("sub1", "user1", "Silver", 499, 10, 10)

	res, err := f.svc.Upgrade(context.Background(), "user1", "", &dto.UpgradeRequest{PlanID: "plan-gold"})
	require.NoError(t, err)

	// User dismissed the checkout widget.
	require.NoError(t, f.svc.ReportPaymentFailure(context.Background(), "user1", res.Order.ID))

	txn, _ := f.payRepo.FindByOrderID(context.Background(), res.Order.ID)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)

	// Subscription untouched, still Silver and active.
	cur, err := f.subRepo.FindActiveByUserID(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "Silver", cur.PlanName)
}
