package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"gamestore-backend/internal/domains/checkout/model"
	"gamestore-backend/internal/domains/checkout/repository"
	couponModel "gamestore-backend/internal/domains/coupon/model"
	orderModel "gamestore-backend/internal/domains/order/model"
	productModel "gamestore-backend/internal/domains/product/model"
	"gamestore-backend/pkg/logger"
)

// CouponEvaluator is the slice of the coupon service the orchestrator
// needs. Declared here to avoid depending on the full coupon service.
type CouponEvaluator interface {
	EvaluateForOrder(ctx context.Context, code string, subtotal decimal.Decimal) (*couponModel.Coupon, decimal.Decimal, error)
	RecordUsage(ctx context.Context, code string) error
}

// ProductPriceResolver resolves current product prices by ID set
type ProductPriceResolver interface {
	GetPricesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]productModel.ProductPrice, error)
}

// OrderCreator persists orders inside the finalize transaction
type OrderCreator interface {
	CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *orderModel.Order) error
}

// CartClearer clears a user's cart after finalization
type CartClearer interface {
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// ServiceInterface defines the checkout orchestrator operations
type ServiceInterface interface {
	CreateSession(ctx context.Context, userID uuid.UUID, req *model.CreateCheckoutRequest) (*model.CheckoutSession, error)
	MarkPaid(ctx context.Context, sessionID uuid.UUID, req *model.MarkPaidRequest) (*model.CheckoutSession, error)
	Finalize(ctx context.Context, sessionID uuid.UUID, appliedCouponCode string) (*orderModel.Order, error)
}

type checkoutService struct {
	repo     repository.CheckoutRepository
	orders   OrderCreator
	products ProductPriceResolver
	coupons  CouponEvaluator
	cart     CartClearer
	now      func() time.Time
}

// NewCheckoutService creates the checkout orchestrator
func NewCheckoutService(
	repo repository.CheckoutRepository,
	orders OrderCreator,
	products ProductPriceResolver,
	coupons CouponEvaluator,
	cart CartClearer,
) ServiceInterface {
	return &checkoutService{
		repo:     repo,
		orders:   orders,
		products: products,
		coupons:  coupons,
		cart:     cart,
		now:      time.Now,
	}
}

// CreateSession persists a new checkout session in the pending state
func (s *checkoutService) CreateSession(ctx context.Context, userID uuid.UUID, req *model.CreateCheckoutRequest) (*model.CheckoutSession, error) {
	if len(req.CheckoutItems) == 0 {
		return nil, model.ErrEmptyItems
	}

	session := &model.CheckoutSession{
		UserID:          userID,
		CheckoutItems:   req.CheckoutItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalPrice:      req.TotalPrice,
		PaymentStatus:   model.PaymentStatusPending,
		IsPaid:          false,
		IsFinalized:     false,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// MarkPaid records the payment confirmation on a session.
//
// Only the "paid" sentinel is accepted; any other status fails without
// mutating state. Re-marking an already-paid session just overwrites
// the payment details; the finalize guard closes off double orders.
func (s *checkoutService) MarkPaid(ctx context.Context, sessionID uuid.UUID, req *model.MarkPaidRequest) (*model.CheckoutSession, error) {
	if _, err := s.repo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, model.ErrSessionNotFoundRow) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	if model.PaymentStatus(req.PaymentStatus) != model.PaymentStatusPaid {
		return nil, model.ErrInvalidPaymentStatus
	}

	session, err := s.repo.MarkPaid(ctx, sessionID, req.PaymentDetails)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFoundRow) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

// Finalize converts a paid session into an authoritative order.
//
// Business Flow:
// 1. Begin transaction, load session with row lock
// 2. Guards: already finalized, not paid, empty items
// 3. Resolve authoritative prices from product records
// 4. Compute itemsPrice over resolvable lines
// 5. Re-validate the coupon against the fresh itemsPrice
// 6. totalPrice = max(itemsPrice - discount, 0)
// 7. Create the order inside the transaction
// 8. Conditionally flip is_finalized; loser of a race gets the
//    already-finalized error
// 9. Commit
// 10. Post-commit: bump coupon usage, clear cart (both non-fatal)
//
// The order is the source of truth for the sale: coupon usage drift
// and a leftover cart are logged, never surfaced as failures.
func (s *checkoutService) Finalize(ctx context.Context, sessionID uuid.UUID, appliedCouponCode string) (*orderModel.Order, error) {
	// Step 1: Transaction + locked load
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.repo.RollbackTx(ctx, tx)

	session, err := s.repo.GetByIDForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFoundRow) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	// Step 2: State guards
	if session.IsFinalized {
		return nil, model.ErrAlreadyFinalized
	}
	if !session.IsPaid {
		return nil, model.ErrNotPaid
	}
	if len(session.CheckoutItems) == 0 {
		return nil, model.ErrEmptyItems
	}

	// Step 3: Resolve authoritative prices
	productIDs := make([]uuid.UUID, 0, len(session.CheckoutItems))
	for _, item := range session.CheckoutItems {
		productIDs = append(productIDs, item.ProductID)
	}

	prices, err := s.products.GetPricesByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve product prices: %w", err)
	}

	// Step 4: Compute itemsPrice and build order lines.
	// A line whose product is gone is dropped from the price
	// computation but kept on the order with its snapshot price.
	itemsPrice := decimal.Zero
	orderItems := make([]orderModel.OrderItem, 0, len(session.CheckoutItems))

	for _, item := range session.CheckoutItems {
		linePrice := item.Price

		if current, ok := prices[item.ProductID]; ok {
			linePrice = current.Price
			lineTotal := current.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			itemsPrice = itemsPrice.Add(lineTotal)
		} else {
			logger.Warn("product no longer resolvable, excluding line from items price", map[string]interface{}{
				"sessionId": sessionID.String(),
				"productId": item.ProductID.String(),
			})
		}

		orderItems = append(orderItems, orderModel.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Price:     linePrice,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	// Step 5: Mandatory coupon re-validation against the fresh
	// itemsPrice, never the client-suggested total. An invalid coupon
	// yields zero discount; the customer already paid.
	discountAmount := decimal.Zero
	var couponCode *string

	if appliedCouponCode != "" {
		coupon, discount, err := s.coupons.EvaluateForOrder(ctx, appliedCouponCode, itemsPrice)
		if err != nil {
			return nil, fmt.Errorf("re-validate coupon: %w", err)
		}
		if coupon != nil {
			discountAmount = discount
			couponCode = &coupon.Code
		}
	}

	// Step 6: Total with zero floor
	totalPrice := itemsPrice.Sub(discountAmount)
	if totalPrice.IsNegative() {
		totalPrice = decimal.Zero
	}

	// Step 7: Create the order
	order := &orderModel.Order{
		UserID:          session.UserID,
		OrderItems:      orderItems,
		ShippingAddress: orderModel.ShippingAddress(session.ShippingAddress),
		PaymentMethod:   session.PaymentMethod,
		ItemsPrice:      itemsPrice,
		DiscountAmount:  discountAmount,
		TotalPrice:      totalPrice,
		CouponCode:      couponCode,
		PaymentStatus:   string(session.PaymentStatus),
		PaymentDetails:  orderModel.PaymentDetails(session.PaymentDetails),
		IsPaid:          true,
		PaidAt:          session.PaidAt,
		IsDelivered:     false,
	}

	if err := s.orders.CreateOrderWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	// Step 8: Conditional finalize flip
	flipped, err := s.repo.MarkFinalizedWithTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, model.ErrAlreadyFinalized
	}

	// Step 9: Commit
	if err := s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	// Step 10: Non-fatal bookkeeping
	if couponCode != nil {
		if err := s.coupons.RecordUsage(ctx, *couponCode); err != nil {
			logger.Error("failed to increment coupon usage after order creation", err)
		}
	}

	if err := s.cart.DeleteByUserID(ctx, session.UserID); err != nil {
		logger.Error("failed to clear cart after finalization", err)
	}

	return order, nil
}
