package model

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// decimalMin validates a decimal.Decimal lower bound.
// ozzo's Min only supports numeric kinds and time.Time.
func decimalMin(min decimal.Decimal, exclusive bool, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok {
			if p, isPtr := value.(*decimal.Decimal); isPtr {
				if p == nil {
					return nil
				}
				d = *p
			} else {
				return errors.New("must be a decimal value")
			}
		}
		if exclusive {
			if d.LessThanOrEqual(min) {
				return errors.New(msg)
			}
		} else if d.LessThan(min) {
			return errors.New(msg)
		}
		return nil
	}
}

// ValidateCouponRequest is the body for POST /coupons/validate
type ValidateCouponRequest struct {
	CouponCode string          `json:"couponCode"`
	CartTotal  decimal.Decimal `json:"cartTotal"`
}

func (r ValidateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CouponCode,
			validation.Required.Error("Coupon code is required"),
			validation.Length(1, 50).Error("Coupon code must be 1-50 characters"),
		),
		validation.Field(&r.CartTotal,
			validation.By(decimalMin(decimal.Zero, false, "cart total must be >= 0")),
		),
	)
}

// CouponInfo is the coupon shape exposed in validate responses
type CouponInfo struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// ValidateCouponResponse is the result of POST /coupons/validate
type ValidateCouponResponse struct {
	IsValid        bool            `json:"isValid"`
	Message        string          `json:"message"`
	Coupon         *CouponInfo     `json:"coupon,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// CreateCouponRequest is the admin body for POST /admin/coupons
type CreateCouponRequest struct {
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	DiscountType      string          `json:"discountType"`
	DiscountValue     decimal.Decimal `json:"discountValue"`
	ExpiryDate        string          `json:"expiryDate"` // RFC3339
	MinPurchaseAmount decimal.Decimal `json:"minPurchaseAmount"`
	MaxUsageLimit     *int            `json:"maxUsageLimit"`
}

func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("Coupon code is required"),
			validation.Length(1, 50).Error("Coupon code must be 1-50 characters"),
			validation.Match(codePattern).Error("Coupon code may only contain letters and digits"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 500).Error("Description must not exceed 500 characters"),
		),
		validation.Field(&r.DiscountType,
			validation.Required.Error("Discount type is required"),
			validation.In(string(DiscountTypePercentage), string(DiscountTypeFixedAmount)).
				Error("Discount type must be 'percentage' or 'fixed_amount'"),
		),
		validation.Field(&r.DiscountValue,
			validation.By(decimalMin(decimal.Zero, true, "discount value must be > 0")),
			validation.By(r.validateDiscountValue),
		),
		validation.Field(&r.ExpiryDate,
			validation.Required.Error("Expiry date is required"),
			validation.Date(time.RFC3339).Error("Expiry date must be RFC3339"),
		),
		validation.Field(&r.MinPurchaseAmount,
			validation.By(decimalMin(decimal.Zero, false, "minimum purchase amount must be >= 0")),
		),
		validation.Field(&r.MaxUsageLimit,
			validation.When(r.MaxUsageLimit != nil,
				validation.Min(1).Error("Max usage limit must be >= 1"),
			),
		),
	)
}

// validateDiscountValue caps percentage discounts at 100
func (r CreateCouponRequest) validateDiscountValue(value interface{}) error {
	if r.DiscountType == string(DiscountTypePercentage) {
		if r.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return errors.New("percentage discount must not exceed 100")
		}
	}
	return nil
}

// UpdateCouponRequest is the admin body for PUT /admin/coupons/:id.
// All fields optional; only set fields are applied.
type UpdateCouponRequest struct {
	Description       *string          `json:"description"`
	DiscountType      *string          `json:"discountType"`
	DiscountValue     *decimal.Decimal `json:"discountValue"`
	ExpiryDate        *string          `json:"expiryDate"`
	MinPurchaseAmount *decimal.Decimal `json:"minPurchaseAmount"`
	MaxUsageLimit     *int             `json:"maxUsageLimit"`
	IsActive          *bool            `json:"isActive"`
}

func (r UpdateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description,
			validation.When(r.Description != nil,
				validation.Length(0, 500).Error("Description must not exceed 500 characters"),
			),
		),
		validation.Field(&r.DiscountType,
			validation.When(r.DiscountType != nil,
				validation.In(string(DiscountTypePercentage), string(DiscountTypeFixedAmount)).
					Error("Discount type must be 'percentage' or 'fixed_amount'"),
			),
		),
		validation.Field(&r.DiscountValue,
			validation.By(decimalMin(decimal.Zero, true, "discount value must be > 0")),
		),
		validation.Field(&r.ExpiryDate,
			validation.When(r.ExpiryDate != nil,
				validation.Date(time.RFC3339).Error("Expiry date must be RFC3339"),
			),
		),
		validation.Field(&r.MaxUsageLimit,
			validation.When(r.MaxUsageLimit != nil,
				validation.Min(1).Error("Max usage limit must be >= 1"),
			),
		),
	)
}

// ListCouponsFilter filters the admin coupon list
type ListCouponsFilter struct {
	Status string `form:"status"` // active, inactive, expired, all
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (f *ListCouponsFilter) Validate() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Status == "" {
		f.Status = "all"
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.Status, validation.In("active", "inactive", "expired", "all")),
	)
}
