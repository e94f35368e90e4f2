package repository

import (
	"context"

	"github.com/google/uuid"

	"gamestore-backend/internal/domains/coupon/model"
)

// CouponRepository defines persistence operations for coupons
type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	List(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error)

	// Deactivate flips is_active to false. Idempotent.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// IncrementUsage atomically bumps usage_count by 1.
	// Safe under concurrent finalizations of the same coupon.
	IncrementUsage(ctx context.Context, code string) error
}
