package repository

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository is the slice of the cart domain the checkout flow
// needs: clearing a user's cart after a successful finalization.
type CartRepository interface {
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
