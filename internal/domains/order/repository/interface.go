package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gamestore-backend/internal/domains/order/model"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	// CreateOrderWithTx inserts the order and its items inside the
	// caller's transaction. The order ID is assigned on return.
	CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	GetOrderByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error)
	ListOrdersByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error)
}
