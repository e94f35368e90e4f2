package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus of a checkout session
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid:
		return true
	}
	return false
}

// CheckoutItem is a cart line snapshotted at checkout creation time.
// Price here is the snapshot price; the authoritative price is resolved
// from product records at finalize time.
type CheckoutItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

// CheckoutItems is stored as a JSONB column
type CheckoutItems []CheckoutItem

func (items CheckoutItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *CheckoutItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CheckoutItems", value)
	}

	return json.Unmarshal(data, items)
}

// ShippingAddress is opaque structured data, validated for presence only
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

// CheckoutSession bridges a cart snapshot and an eventual order.
// Lifecycle: created -> paid -> finalized. Transitions never skip or
// reverse; IsFinalized becomes true exactly once.
type CheckoutSession struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	CheckoutItems   CheckoutItems   `json:"checkoutItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalPrice      decimal.Decimal `json:"totalPrice"` // client-suggested, not authoritative
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails"`
	IsFinalized     bool            `json:"isFinalized"`
	FinalizedAt     *time.Time      `json:"finalizedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
