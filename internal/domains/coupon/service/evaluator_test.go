package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"gamestore-backend/internal/domains/coupon/model"
)

func intPtr(v int) *int {
	return &v
}

func testCoupon(mutate func(*model.Coupon)) *model.Coupon {
	c := &model.Coupon{
		Code:              "SAVE10",
		DiscountType:      model.DiscountTypePercentage,
		DiscountValue:     decimal.NewFromInt(10),
		ExpiryDate:        time.Now().Add(24 * time.Hour),
		MinPurchaseAmount: decimal.Zero,
		IsActive:          true,
	}
	if mutate != nil {
		mutate(c)
	}
	return c
}

func TestEvaluate_PercentageDiscount(t *testing.T) {
	evaluator := NewEvaluator()

	eval := evaluator.Evaluate(testCoupon(nil), decimal.NewFromFloat(250.00), time.Now())

	assert.True(t, eval.Valid)
	assert.Equal(t, Reason(""), eval.Reason)
	assert.True(t, eval.DiscountAmount.Equal(decimal.NewFromInt(25)),
		"expected 25, got %s", eval.DiscountAmount)
}

func TestEvaluate_FixedAmountCappedAtSubtotal(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.Code = "FLAT20"
		c.DiscountType = model.DiscountTypeFixedAmount
		c.DiscountValue = decimal.NewFromInt(20)
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromFloat(15.00), time.Now())

	assert.True(t, eval.Valid)
	assert.True(t, eval.DiscountAmount.Equal(decimal.NewFromInt(15)),
		"fixed discount must not exceed subtotal, got %s", eval.DiscountAmount)
}

func TestEvaluate_DiscountBounds(t *testing.T) {
	evaluator := NewEvaluator()
	now := time.Now()

	subtotals := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromFloat(0.49),
		decimal.NewFromFloat(99.99),
		decimal.NewFromInt(1000),
	}

	for _, subtotal := range subtotals {
		pct := testCoupon(func(c *model.Coupon) {
			c.DiscountValue = decimal.NewFromInt(50)
		})
		eval := evaluator.Evaluate(pct, subtotal, now)
		assert.True(t, eval.Valid)
		assert.False(t, eval.DiscountAmount.IsNegative())

		fixed := testCoupon(func(c *model.Coupon) {
			c.DiscountType = model.DiscountTypeFixedAmount
			c.DiscountValue = decimal.NewFromInt(30)
		})
		eval = evaluator.Evaluate(fixed, subtotal, now)
		assert.True(t, eval.Valid)
		assert.False(t, eval.DiscountAmount.IsNegative())
		assert.True(t, eval.DiscountAmount.LessThanOrEqual(decimal.NewFromInt(30)),
			"fixed discount must not exceed discount value")
	}
}

func TestEvaluate_RoundsToWholeUnits(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.DiscountValue = decimal.NewFromInt(10)
	})

	// 10% of 255 = 25.5, rounds half away from zero to 26
	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(255), time.Now())

	assert.True(t, eval.Valid)
	assert.True(t, eval.DiscountAmount.Equal(decimal.NewFromInt(26)),
		"expected 26, got %s", eval.DiscountAmount)
}

func TestEvaluate_NilCoupon(t *testing.T) {
	evaluator := NewEvaluator()

	eval := evaluator.Evaluate(nil, decimal.NewFromInt(100), time.Now())

	assert.False(t, eval.Valid)
	assert.Equal(t, ReasonNotFound, eval.Reason)
	assert.True(t, eval.DiscountAmount.IsZero())
}

func TestEvaluate_Inactive(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.IsActive = false
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(100), time.Now())

	assert.False(t, eval.Valid)
	assert.Equal(t, ReasonInactive, eval.Reason)
}

func TestEvaluate_Expired(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.ExpiryDate = time.Now().Add(-time.Hour)
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(100), time.Now())

	assert.False(t, eval.Valid)
	assert.Equal(t, ReasonExpired, eval.Reason)
}

func TestEvaluate_InactiveReportedBeforeExpired(t *testing.T) {
	// A lazily deactivated coupon reports inactive on later checks,
	// even though its expiry date has also passed.
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.IsActive = false
		c.ExpiryDate = time.Now().Add(-time.Hour)
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(100), time.Now())

	assert.Equal(t, ReasonInactive, eval.Reason)
}

func TestEvaluate_UsageLimitReached(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.Code = "LIMIT1"
		c.MaxUsageLimit = intPtr(1)
		c.UsageCount = 1
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(100), time.Now())

	assert.False(t, eval.Valid)
	assert.Equal(t, ReasonUsageLimit, eval.Reason)
}

func TestEvaluate_UnlimitedUsage(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.MaxUsageLimit = nil
		c.UsageCount = 100000
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(100), time.Now())

	assert.True(t, eval.Valid)
}

func TestEvaluate_MinPurchaseNotMet(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.MinPurchaseAmount = decimal.NewFromInt(50)
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromFloat(49.99), time.Now())

	assert.False(t, eval.Valid)
	assert.Equal(t, ReasonMinPurchase, eval.Reason)
}

func TestEvaluate_MinPurchaseExactlyMet(t *testing.T) {
	evaluator := NewEvaluator()
	coupon := testCoupon(func(c *model.Coupon) {
		c.MinPurchaseAmount = decimal.NewFromInt(50)
	})

	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(50), time.Now())

	assert.True(t, eval.Valid)
}

func TestEvaluate_ExpiryBoundary(t *testing.T) {
	evaluator := NewEvaluator()
	now := time.Now()
	coupon := testCoupon(func(c *model.Coupon) {
		c.ExpiryDate = now
	})

	// expiryDate >= now is still valid
	eval := evaluator.Evaluate(coupon, decimal.NewFromInt(100), now)

	assert.True(t, eval.Valid)
}
