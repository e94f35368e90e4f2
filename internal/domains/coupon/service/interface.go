package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore-backend/internal/domains/coupon/model"
)

// ServiceInterface defines coupon business operations
type ServiceInterface interface {
	// ValidateCoupon checks a code against a cart total and returns the
	// computed discount. Fails with a distinct error per violated rule.
	ValidateCoupon(ctx context.Context, req *model.ValidateCouponRequest) (*model.ValidateCouponResponse, error)

	// EvaluateForOrder is the soft variant used during order finalization:
	// an invalid coupon yields a nil coupon and zero discount, never a
	// business error. Only infrastructure failures are returned.
	EvaluateForOrder(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error)

	// RecordUsage bumps the usage count after a successful order
	RecordUsage(ctx context.Context, code string) error

	// Admin operations
	CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	ListCoupons(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}
