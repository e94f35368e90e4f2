package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore-backend/internal/domains/coupon/model"
	"gamestore-backend/internal/domains/coupon/repository"
	"gamestore-backend/pkg/logger"
)

type couponService struct {
	repo      repository.CouponRepository
	evaluator *Evaluator
	now       func() time.Time
}

// NewCouponService creates the coupon service
func NewCouponService(repo repository.CouponRepository) ServiceInterface {
	return &couponService{
		repo:      repo,
		evaluator: NewEvaluator(),
		now:       time.Now,
	}
}

// -------------------------------------------------------------------
// PUBLIC METHODS (User-facing)
// -------------------------------------------------------------------

// ValidateCoupon validates a coupon code against the current cart total
//
// Business Flow:
// 1. Find coupon by normalized code
// 2. Evaluate all rules against the cart total
// 3. On expiry: deactivate the coupon (lazy deactivation)
// 4. Map failed rule to its distinct error
// 5. On success: return coupon info + discount amount
func (s *couponService) ValidateCoupon(ctx context.Context, req *model.ValidateCouponRequest) (*model.ValidateCouponResponse, error) {
	code := model.NormalizeCode(req.CouponCode)

	// Step 1: Find coupon
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFoundRow) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}

	// Step 2: Evaluate
	eval := s.evaluator.Evaluate(coupon, req.CartTotal, s.now())

	// Step 3: Lazy deactivation on expiry
	if eval.Reason == ReasonExpired {
		s.deactivateExpired(ctx, coupon)
	}

	// Step 4: Map failure reasons
	if !eval.Valid {
		return nil, reasonToError(eval.Reason)
	}

	// Step 5: Build response
	return &model.ValidateCouponResponse{
		IsValid: true,
		Message: "Coupon applied successfully",
		Coupon: &model.CouponInfo{
			Code:          coupon.Code,
			DiscountType:  coupon.DiscountType,
			DiscountValue: coupon.DiscountValue,
		},
		DiscountAmount: eval.DiscountAmount,
	}, nil
}

// EvaluateForOrder re-validates a coupon during order finalization.
//
// The customer already paid, so an invalid coupon never blocks the
// order: the caller proceeds with zero discount. Only repository
// failures propagate.
func (s *couponService) EvaluateForOrder(ctx context.Context, code string, subtotal decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	normalized := model.NormalizeCode(code)

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFoundRow) {
			logger.Warn("coupon no longer exists at finalize time", map[string]interface{}{
				"code": normalized,
			})
			return nil, decimal.Zero, nil
		}
		return nil, decimal.Zero, fmt.Errorf("find coupon: %w", err)
	}

	eval := s.evaluator.Evaluate(coupon, subtotal, s.now())

	if eval.Reason == ReasonExpired {
		s.deactivateExpired(ctx, coupon)
	}

	if !eval.Valid {
		logger.Warn("coupon no longer valid at finalize time, applying zero discount", map[string]interface{}{
			"code":   normalized,
			"reason": string(eval.Reason),
		})
		return nil, decimal.Zero, nil
	}

	return coupon, eval.DiscountAmount, nil
}

// RecordUsage bumps the coupon usage count by one
func (s *couponService) RecordUsage(ctx context.Context, code string) error {
	return s.repo.IncrementUsage(ctx, code)
}

// deactivateExpired performs the lazy-deactivation side effect.
// Failure is logged only; the expired verdict stands either way.
func (s *couponService) deactivateExpired(ctx context.Context, coupon *model.Coupon) {
	if !coupon.IsActive {
		return
	}
	if err := s.repo.Deactivate(ctx, coupon.ID); err != nil {
		logger.Error("failed to deactivate expired coupon", err)
	}
}

// reasonToError maps an evaluation reason to its API error
func reasonToError(reason Reason) error {
	switch reason {
	case ReasonNotFound:
		return model.ErrCouponNotFound
	case ReasonInactive:
		return model.ErrCouponInactive
	case ReasonExpired:
		return model.ErrCouponExpired
	case ReasonUsageLimit:
		return model.ErrCouponUsageLimit
	case ReasonMinPurchase:
		return model.ErrCouponMinPurchase
	default:
		return model.ErrCouponInactive
	}
}

// -------------------------------------------------------------------
// ADMIN METHODS
// -------------------------------------------------------------------

// CreateCoupon creates a new coupon
//
// Rules:
// - Code is normalized (trimmed, uppercased) and must be unique
// - Expiry date must be strictly in the future
func (s *couponService) CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	expiryDate, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		return nil, model.ErrCouponExpiryInPast.WithDetails(map[string]interface{}{
			"expiryDate": req.ExpiryDate,
		})
	}

	if !expiryDate.After(s.now()) {
		return nil, model.ErrCouponExpiryInPast
	}

	coupon := &model.Coupon{
		Code:              model.NormalizeCode(req.Code),
		Description:       req.Description,
		DiscountType:      model.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		ExpiryDate:        expiryDate,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxUsageLimit:     req.MaxUsageLimit,
		UsageCount:        0,
		IsActive:          true,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, model.ErrDuplicateCode) {
			return nil, model.ErrCouponDuplicateCode.WithDetails(map[string]interface{}{
				"code": coupon.Code,
			})
		}
		return nil, err
	}

	return coupon, nil
}

// GetCoupon returns a coupon by ID
func (s *couponService) GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFoundRow) {
			return nil, model.ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

// ListCoupons returns coupons matching the filter
func (s *couponService) ListCoupons(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdateCoupon applies the set fields of the request to an existing coupon
func (s *couponService) UpdateCoupon(ctx context.Context, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFoundRow) {
			return nil, model.ErrCouponNotFound
		}
		return nil, err
	}

	updated := *existing

	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.DiscountType != nil {
		updated.DiscountType = model.DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		updated.DiscountValue = *req.DiscountValue
	}
	if req.ExpiryDate != nil {
		expiryDate, err := time.Parse(time.RFC3339, *req.ExpiryDate)
		if err != nil {
			return nil, model.ErrCouponExpiryInPast.WithDetails(map[string]interface{}{
				"expiryDate": *req.ExpiryDate,
			})
		}
		if !expiryDate.After(s.now()) {
			return nil, model.ErrCouponExpiryInPast
		}
		updated.ExpiryDate = expiryDate
	}
	if req.MinPurchaseAmount != nil {
		updated.MinPurchaseAmount = *req.MinPurchaseAmount
	}
	if req.MaxUsageLimit != nil {
		updated.MaxUsageLimit = req.MaxUsageLimit
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, model.ErrCouponNotFoundRow) {
			return nil, model.ErrCouponNotFound
		}
		return nil, err
	}

	return &updated, nil
}

// DeleteCoupon soft-deletes a coupon by deactivating it.
// Coupons are never hard-deleted; orders keep referencing the code.
func (s *couponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFoundRow) {
			return model.ErrCouponNotFound
		}
		return err
	}
	return nil
}
