package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore-backend/internal/domains/checkout/model"
	couponModel "gamestore-backend/internal/domains/coupon/model"
	orderModel "gamestore-backend/internal/domains/order/model"
	productModel "gamestore-backend/internal/domains/product/model"
	"gamestore-backend/internal/shared/apperror"
)

// -------------------------------------------------------------------
// FAKES
// -------------------------------------------------------------------

// fakeCheckoutRepo is an in-memory CheckoutRepository.
// Transactions are no-ops; the conditional finalize flip is real.
type fakeCheckoutRepo struct {
	sessions map[uuid.UUID]*model.CheckoutSession

	// staleFinalizedRead makes the locked load report the session as
	// unfinalized, simulating a concurrent transaction winning the
	// flip between load and update.
	staleFinalizedRead bool
}

func newFakeCheckoutRepo(sessions ...*model.CheckoutSession) *fakeCheckoutRepo {
	r := &fakeCheckoutRepo{sessions: make(map[uuid.UUID]*model.CheckoutSession)}
	for _, s := range sessions {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.sessions[s.ID] = s
	}
	return r
}

func (r *fakeCheckoutRepo) BeginTx(ctx context.Context) (pgx.Tx, error) { return nil, nil }

func (r *fakeCheckoutRepo) CommitTx(ctx context.Context, tx pgx.Tx) error { return nil }

func (r *fakeCheckoutRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error { return nil }

func (r *fakeCheckoutRepo) Create(ctx context.Context, session *model.CheckoutSession) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeCheckoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFoundRow
	}
	copied := *s
	return &copied, nil
}

func (r *fakeCheckoutRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.CheckoutSession, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.staleFinalizedRead {
		s.IsFinalized = false
	}
	return s, nil
}

func (r *fakeCheckoutRepo) MarkPaid(ctx context.Context, id uuid.UUID, details model.PaymentDetails) (*model.CheckoutSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFoundRow
	}
	now := time.Now()
	s.PaymentStatus = model.PaymentStatusPaid
	s.IsPaid = true
	s.PaidAt = &now
	s.PaymentDetails = details
	copied := *s
	return &copied, nil
}

func (r *fakeCheckoutRepo) MarkFinalizedWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	if s.IsFinalized {
		return false, nil
	}
	now := time.Now()
	s.IsFinalized = true
	s.FinalizedAt = &now
	return true, nil
}

// fakeOrderCreator records created orders
type fakeOrderCreator struct {
	orders []*orderModel.Order
	err    error
}

func (f *fakeOrderCreator) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *orderModel.Order) error {
	if f.err != nil {
		return f.err
	}
	order.ID = uuid.New()
	f.orders = append(f.orders, order)
	return nil
}

// fakePriceResolver serves a fixed price table
type fakePriceResolver struct {
	prices map[uuid.UUID]decimal.Decimal
	err    error
}

func (f *fakePriceResolver) GetPricesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]productModel.ProductPrice, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[uuid.UUID]productModel.ProductPrice)
	for _, id := range ids {
		if price, ok := f.prices[id]; ok {
			result[id] = productModel.ProductPrice{ID: id, Price: price}
		}
	}
	return result, nil
}

// fakeCouponEvaluator returns a scripted evaluation
type fakeCouponEvaluator struct {
	coupon       *couponModel.Coupon
	discount     decimal.Decimal
	evalErr      error
	usageErr     error
	usageCalls   int
	lastSubtotal decimal.Decimal
}

func (f *fakeCouponEvaluator) EvaluateForOrder(ctx context.Context, code string, subtotal decimal.Decimal) (*couponModel.Coupon, decimal.Decimal, error) {
	f.lastSubtotal = subtotal
	if f.evalErr != nil {
		return nil, decimal.Zero, f.evalErr
	}
	return f.coupon, f.discount, nil
}

func (f *fakeCouponEvaluator) RecordUsage(ctx context.Context, code string) error {
	f.usageCalls++
	return f.usageErr
}

// fakeCartClearer records clear calls
type fakeCartClearer struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeCartClearer) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	f.calls = append(f.calls, userID)
	return f.err
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

type fixture struct {
	repo     *fakeCheckoutRepo
	orders   *fakeOrderCreator
	products *fakePriceResolver
	coupons  *fakeCouponEvaluator
	cart     *fakeCartClearer
	svc      ServiceInterface
}

func newFixture(sessions ...*model.CheckoutSession) *fixture {
	f := &fixture{
		repo:     newFakeCheckoutRepo(sessions...),
		orders:   &fakeOrderCreator{},
		products: &fakePriceResolver{prices: make(map[uuid.UUID]decimal.Decimal)},
		coupons:  &fakeCouponEvaluator{discount: decimal.Zero},
		cart:     &fakeCartClearer{},
	}
	f.svc = NewCheckoutService(f.repo, f.orders, f.products, f.coupons, f.cart)
	return f
}

func paidSession(mutate func(*model.CheckoutSession)) *model.CheckoutSession {
	now := time.Now()
	s := &model.CheckoutSession{
		ID:     uuid.New(),
		UserID: uuid.New(),
		CheckoutItems: model.CheckoutItems{
			{ProductID: uuid.New(), Name: "Game A", Quantity: 2, Price: decimal.NewFromInt(30)},
			{ProductID: uuid.New(), Name: "Game B", Quantity: 1, Price: decimal.NewFromInt(40)},
		},
		ShippingAddress: model.ShippingAddress{"city": "Hanoi"},
		PaymentMethod:   "card",
		TotalPrice:      decimal.NewFromInt(100),
		PaymentStatus:   model.PaymentStatusPaid,
		IsPaid:          true,
		PaidAt:          &now,
	}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func appErrCode(t *testing.T, err error) apperror.ErrorCode {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

// -------------------------------------------------------------------
// CREATE SESSION
// -------------------------------------------------------------------

func TestCreateSession(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	session, err := f.svc.CreateSession(context.Background(), userID, &model.CreateCheckoutRequest{
		CheckoutItems: []model.CheckoutItem{
			{ProductID: uuid.New(), Name: "Game A", Quantity: 1, Price: decimal.NewFromInt(50)},
		},
		ShippingAddress: model.ShippingAddress{"city": "Hanoi"},
		PaymentMethod:   "card",
		TotalPrice:      decimal.NewFromInt(50),
	})

	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, model.PaymentStatusPending, session.PaymentStatus)
	assert.False(t, session.IsPaid)
	assert.False(t, session.IsFinalized)
	assert.NotEqual(t, uuid.Nil, session.ID)
}

func TestCreateSession_EmptyItems(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateSession(context.Background(), uuid.New(), &model.CreateCheckoutRequest{
		CheckoutItems: nil,
		PaymentMethod: "card",
	})

	assert.Equal(t, model.ErrCodeEmptyItems, appErrCode(t, err))
}

// -------------------------------------------------------------------
// MARK PAID
// -------------------------------------------------------------------

func TestMarkPaid(t *testing.T) {
	session := paidSession(func(s *model.CheckoutSession) {
		s.PaymentStatus = model.PaymentStatusPending
		s.IsPaid = false
		s.PaidAt = nil
	})
	f := newFixture(session)

	updated, err := f.svc.MarkPaid(context.Background(), session.ID, &model.MarkPaidRequest{
		PaymentStatus:  "paid",
		PaymentDetails: model.PaymentDetails{"transactionId": "tx-123"},
	})

	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
	assert.NotNil(t, updated.PaidAt)
	assert.Equal(t, "tx-123", updated.PaymentDetails["transactionId"])
}

func TestMarkPaid_RejectsOtherStatuses(t *testing.T) {
	session := paidSession(func(s *model.CheckoutSession) {
		s.IsPaid = false
		s.PaymentStatus = model.PaymentStatusPending
	})
	f := newFixture(session)

	for _, status := range []string{"pending", "failed", "PAID", ""} {
		_, err := f.svc.MarkPaid(context.Background(), session.ID, &model.MarkPaidRequest{
			PaymentStatus: status,
		})
		assert.Equal(t, model.ErrCodeInvalidPaymentStatus, appErrCode(t, err), "status %q", status)
	}

	// No mutation happened
	stored, _ := f.repo.GetByID(context.Background(), session.ID)
	assert.False(t, stored.IsPaid)
}

func TestMarkPaid_SessionNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MarkPaid(context.Background(), uuid.New(), &model.MarkPaidRequest{
		PaymentStatus: "paid",
	})

	assert.Equal(t, model.ErrCodeSessionNotFound, appErrCode(t, err))
}

// -------------------------------------------------------------------
// FINALIZE
// -------------------------------------------------------------------

func TestFinalize_Success(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}

	order, err := f.svc.Finalize(context.Background(), session.ID, "")

	require.NoError(t, err)
	assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, order.CouponCode)
	assert.True(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Len(t, order.OrderItems, 2)

	// Session flipped, cart cleared
	stored, _ := f.repo.GetByID(context.Background(), session.ID)
	assert.True(t, stored.IsFinalized)
	assert.Equal(t, []uuid.UUID{session.UserID}, f.cart.calls)
}

func TestFinalize_IdempotentGuard(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}

	_, err := f.svc.Finalize(context.Background(), session.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Finalize(context.Background(), session.ID, "")
	assert.Equal(t, model.ErrCodeAlreadyFinalized, appErrCode(t, err))

	// Exactly one order
	assert.Len(t, f.orders.orders, 1)
}

func TestFinalize_NotPaid(t *testing.T) {
	session := paidSession(func(s *model.CheckoutSession) {
		s.IsPaid = false
		s.PaymentStatus = model.PaymentStatusPending
		s.PaidAt = nil
	})
	f := newFixture(session)

	_, err := f.svc.Finalize(context.Background(), session.ID, "")

	assert.Equal(t, model.ErrCodeNotPaid, appErrCode(t, err))
	assert.Empty(t, f.orders.orders)
}

func TestFinalize_EmptyItems(t *testing.T) {
	session := paidSession(func(s *model.CheckoutSession) {
		s.CheckoutItems = nil
	})
	f := newFixture(session)

	_, err := f.svc.Finalize(context.Background(), session.ID, "")

	assert.Equal(t, model.ErrCodeEmptyItems, appErrCode(t, err))
}

func TestFinalize_SessionNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Finalize(context.Background(), uuid.New(), "")

	assert.Equal(t, model.ErrCodeSessionNotFound, appErrCode(t, err))
}

func TestFinalize_UsesAuthoritativePrices(t *testing.T) {
	// Snapshot says 100, but one product's price dropped: authoritative
	// itemsPrice is 90.
	session := paidSession(nil)
	f := newFixture(session)
	f.products.prices[session.CheckoutItems[0].ProductID] = decimal.NewFromInt(25) // was 30 x2
	f.products.prices[session.CheckoutItems[1].ProductID] = decimal.NewFromInt(40)

	order, err := f.svc.Finalize(context.Background(), session.ID, "")

	require.NoError(t, err)
	assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(90)),
		"expected 90, got %s", order.ItemsPrice)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(90)))
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.NewFromInt(25)))
}

func TestFinalize_DropsUnresolvableLineFromItemsPrice(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	// Only the second product still exists
	f.products.prices[session.CheckoutItems[1].ProductID] = decimal.NewFromInt(40)

	order, err := f.svc.Finalize(context.Background(), session.ID, "")

	require.NoError(t, err)
	assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(40)),
		"dropped line must not count toward items price, got %s", order.ItemsPrice)

	// The dropped line stays on the order with its snapshot price
	require.Len(t, order.OrderItems, 2)
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.NewFromInt(30)))
}

func TestFinalize_AppliesCoupon(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}
	f.coupons.coupon = &couponModel.Coupon{Code: "SAVE10"}
	f.coupons.discount = decimal.NewFromInt(10)

	order, err := f.svc.Finalize(context.Background(), session.ID, "SAVE10")

	require.NoError(t, err)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "SAVE10", *order.CouponCode)
	assert.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(90)))

	// Re-validation ran against the fresh items price, not the
	// client-suggested total
	assert.True(t, f.coupons.lastSubtotal.Equal(decimal.NewFromInt(100)))

	// Usage recorded once
	assert.Equal(t, 1, f.coupons.usageCalls)
}

func TestFinalize_InvalidCouponProceedsWithZeroDiscount(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}
	// Evaluator reports the coupon as no longer valid
	f.coupons.coupon = nil
	f.coupons.discount = decimal.Zero

	order, err := f.svc.Finalize(context.Background(), session.ID, "EXPIRED")

	require.NoError(t, err)
	assert.Nil(t, order.CouponCode)
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 0, f.coupons.usageCalls)
}

func TestFinalize_TotalNeverNegative(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}
	f.coupons.coupon = &couponModel.Coupon{Code: "HUGE"}
	f.coupons.discount = decimal.NewFromInt(500)

	order, err := f.svc.Finalize(context.Background(), session.ID, "HUGE")

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.IsZero(),
		"total must floor at zero, got %s", order.TotalPrice)
}

func TestFinalize_UsageIncrementFailureIsNonFatal(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}
	f.coupons.coupon = &couponModel.Coupon{Code: "SAVE10"}
	f.coupons.discount = decimal.NewFromInt(10)
	f.coupons.usageErr = errors.New("db down")

	order, err := f.svc.Finalize(context.Background(), session.ID, "SAVE10")

	require.NoError(t, err)
	assert.NotNil(t, order.CouponCode)
	assert.Len(t, f.orders.orders, 1)
}

func TestFinalize_CartClearFailureIsNonFatal(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}
	f.cart.err = errors.New("cart service down")

	order, err := f.svc.Finalize(context.Background(), session.ID, "")

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestFinalize_ConcurrentLoserGetsAlreadyFinalized(t *testing.T) {
	// The conditional flip fails when another transaction finalized
	// the session between load and update.
	session := paidSession(nil)
	f := newFixture(session)
	for _, item := range session.CheckoutItems {
		f.products.prices[item.ProductID] = item.Price
	}

	// The winner already flipped the flag; the loser's locked load is
	// forced to see the pre-flip state.
	f.repo.sessions[session.ID].IsFinalized = true
	f.repo.staleFinalizedRead = true

	_, err := f.svc.Finalize(context.Background(), session.ID, "")
	assert.Equal(t, model.ErrCodeAlreadyFinalized, appErrCode(t, err))
	assert.Equal(t, 0, f.coupons.usageCalls)
	assert.Empty(t, f.cart.calls)
}

func TestFinalize_PriceResolutionFailureAborts(t *testing.T) {
	session := paidSession(nil)
	f := newFixture(session)
	f.products.err = errors.New("db down")

	_, err := f.svc.Finalize(context.Background(), session.ID, "")

	require.Error(t, err)
	assert.Empty(t, f.orders.orders)

	stored, _ := f.repo.GetByID(context.Background(), session.ID)
	assert.False(t, stored.IsFinalized)
}
