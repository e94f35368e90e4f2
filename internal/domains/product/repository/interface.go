package repository

import (
	"context"

	"github.com/google/uuid"

	"gamestore-backend/internal/domains/product/model"
)

// ProductRepository resolves product data for the checkout flow
type ProductRepository interface {
	// GetPricesByIDs returns current prices keyed by product ID.
	// IDs with no matching product are simply absent from the map.
	GetPricesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.ProductPrice, error)
}
