package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CreateCheckoutRequest is the body for POST /checkout
type CreateCheckoutRequest struct {
	CheckoutItems   []CheckoutItem  `json:"checkoutItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

func (r CreateCheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CheckoutItems,
			validation.Required.Error("Checkout items are required"),
			validation.Length(1, 0).Error("Checkout items must not be empty"),
		),
		validation.Field(&r.ShippingAddress,
			validation.Required.Error("Shipping address is required"),
		),
		validation.Field(&r.PaymentMethod,
			validation.Required.Error("Payment method is required"),
		),
	)
}

// MarkPaidRequest is the body for PUT /checkout/:id/pay
type MarkPaidRequest struct {
	PaymentStatus  string         `json:"paymentStatus"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

func (r MarkPaidRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentStatus,
			validation.Required.Error("Payment status is required"),
		),
	)
}

// FinalizeRequest is the body for POST /checkout/:id/finalize
type FinalizeRequest struct {
	AppliedCouponCode string `json:"appliedCouponCode"`
}
