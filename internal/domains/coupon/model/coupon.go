package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a coupon reduces the cart total
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountTypePercentage, DiscountTypeFixedAmount:
		return true
	}
	return false
}

// Coupon represents a discount coupon.
// Coupons are never hard-deleted; admin delete flips IsActive.
type Coupon struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	DiscountType      DiscountType    `json:"discountType"`
	DiscountValue     decimal.Decimal `json:"discountValue"`
	ExpiryDate        time.Time       `json:"expiryDate"`
	MinPurchaseAmount decimal.Decimal `json:"minPurchaseAmount"`
	MaxUsageLimit     *int            `json:"maxUsageLimit"` // nil means unlimited
	UsageCount        int             `json:"usageCount"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// NormalizeCode trims and uppercases a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired reports whether the coupon expiry date has passed
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}

// IsUsageLimitReached reports whether the usage limit has been hit.
// A nil limit means unlimited usage.
func (c *Coupon) IsUsageLimitReached() bool {
	return c.MaxUsageLimit != nil && c.UsageCount >= *c.MaxUsageLimit
}
