package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entity. The checkout flow only needs the
// current price; the rest is served by the catalog endpoints.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductPrice is the minimal shape resolved during order finalization
type ProductPrice struct {
	ID    uuid.UUID       `json:"id"`
	Price decimal.Decimal `json:"price"`
}
