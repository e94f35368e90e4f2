package service

import (
	"time"

	"github.com/shopspring/decimal"

	"gamestore-backend/internal/domains/coupon/model"
)

// Reason explains why a coupon evaluation failed
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNotFound        Reason = "not_found"
	ReasonInactive        Reason = "inactive"
	ReasonExpired         Reason = "expired"
	ReasonUsageLimit      Reason = "usage_limit_reached"
	ReasonMinPurchase     Reason = "min_purchase_not_met"
	ReasonInvalidDiscount Reason = "invalid_discount_type"
)

// Evaluation is the outcome of evaluating a coupon against a cart subtotal
type Evaluation struct {
	Valid          bool
	Reason         Reason
	DiscountAmount decimal.Decimal
}

// Evaluator decides coupon validity and computes discount amounts.
// Pure computation; persistence side effects (lazy deactivation,
// usage increments) belong to the caller.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate checks all validity rules in order and, when every rule
// passes, computes the discount for the given subtotal.
//
// Rule order matters: an expired coupon that was already deactivated
// reports "inactive", not "expired", on subsequent evaluations.
func (e *Evaluator) Evaluate(coupon *model.Coupon, cartSubtotal decimal.Decimal, now time.Time) Evaluation {
	if coupon == nil {
		return Evaluation{Reason: ReasonNotFound, DiscountAmount: decimal.Zero}
	}

	if !coupon.IsActive {
		return Evaluation{Reason: ReasonInactive, DiscountAmount: decimal.Zero}
	}

	if coupon.IsExpired(now) {
		return Evaluation{Reason: ReasonExpired, DiscountAmount: decimal.Zero}
	}

	if coupon.IsUsageLimitReached() {
		return Evaluation{Reason: ReasonUsageLimit, DiscountAmount: decimal.Zero}
	}

	if cartSubtotal.LessThan(coupon.MinPurchaseAmount) {
		return Evaluation{Reason: ReasonMinPurchase, DiscountAmount: decimal.Zero}
	}

	if !coupon.DiscountType.IsValid() {
		return Evaluation{Reason: ReasonInvalidDiscount, DiscountAmount: decimal.Zero}
	}

	return Evaluation{Valid: true, DiscountAmount: e.calculateDiscount(coupon, cartSubtotal)}
}

// calculateDiscount computes the rounded discount for a valid coupon.
//
// Percentage: subtotal * value / 100.
// Fixed amount: min(value, subtotal), never exceeding the subtotal.
// Both rounded to the nearest whole currency unit, half away from zero.
func (e *Evaluator) calculateDiscount(coupon *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		discount = subtotal.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))

	case model.DiscountTypeFixedAmount:
		discount = coupon.DiscountValue
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}

	default:
		return decimal.Zero
	}

	return discount.Round(0)
}
