package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddress is opaque structured data carried over from checkout
type ShippingAddress map[string]interface{}

func (a ShippingAddress) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ShippingAddress", value)
	}

	return json.Unmarshal(data, a)
}

// PaymentDetails is the opaque payment-gateway response blob
type PaymentDetails map[string]interface{}

func (d PaymentDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *PaymentDetails) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentDetails", value)
	}

	return json.Unmarshal(data, d)
}

// OrderItem is one line of a finalized order.
// Price is the authoritative product price resolved at finalize time,
// falling back to the checkout snapshot when the product is gone.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"orderId"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

// Order is created exactly once per checkout session at finalization
// and immutable afterward.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	CouponCode      *string         `json:"couponCode"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt"`
	IsDelivered     bool            `json:"isDelivered"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
