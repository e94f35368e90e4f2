package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamestore-backend/internal/domains/order/model"
)

// PostgresRepository implements OrderRepository on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) OrderRepository {
	return &PostgresRepository{db: db}
}

// CreateOrderWithTx inserts the order row and its items atomically
// within the given transaction.
func (r *PostgresRepository) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	orderQuery := `
		INSERT INTO orders (
			user_id, shipping_address, payment_method,
			items_price, discount_amount, total_price, coupon_code,
			payment_status, payment_details, is_paid, paid_at, is_delivered
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, orderQuery,
		order.UserID,
		order.ShippingAddress,
		order.PaymentMethod,
		order.ItemsPrice,
		order.DiscountAmount,
		order.TotalPrice,
		order.CouponCode,
		order.PaymentStatus,
		order.PaymentDetails,
		order.IsPaid,
		order.PaidAt,
		order.IsDelivered,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (
			order_id, product_id, name, quantity, image, price, size, color
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		item.OrderID = order.ID

		err := tx.QueryRow(ctx, itemQuery,
			item.OrderID,
			item.ProductID,
			item.Name,
			item.Quantity,
			item.Image,
			item.Price,
			item.Size,
			item.Color,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	return nil
}

// GetOrderByIDAndUserID loads an order with its items, scoped to the owner
func (r *PostgresRepository) GetOrderByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	query := `
		SELECT
			id, user_id, shipping_address, payment_method,
			items_price, discount_amount, total_price, coupon_code,
			payment_status, payment_details, is_paid, paid_at, is_delivered,
			created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	var o model.Order
	err := r.db.QueryRow(ctx, query, orderID, userID).Scan(
		&o.ID,              // id
		&o.UserID,          // user_id
		&o.ShippingAddress, // shipping_address
		&o.PaymentMethod,   // payment_method
		&o.ItemsPrice,      // items_price
		&o.DiscountAmount,  // discount_amount
		&o.TotalPrice,      // total_price
		&o.CouponCode,      // coupon_code (nullable)
		&o.PaymentStatus,   // payment_status
		&o.PaymentDetails,  // payment_details
		&o.IsPaid,          // is_paid
		&o.PaidAt,          // paid_at (nullable)
		&o.IsDelivered,     // is_delivered
		&o.CreatedAt,       // created_at
		&o.UpdatedAt,       // updated_at
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFoundRow
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.getOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.OrderItems = items

	return &o, nil
}

// ListOrdersByUserID returns a user's orders, newest first
func (r *PostgresRepository) ListOrdersByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT
			id, user_id, shipping_address, payment_method,
			items_price, discount_amount, total_price, coupon_code,
			payment_status, payment_details, is_paid, paid_at, is_delivered,
			created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.ShippingAddress,
			&o.PaymentMethod,
			&o.ItemsPrice,
			&o.DiscountAmount,
			&o.TotalPrice,
			&o.CouponCode,
			&o.PaymentStatus,
			&o.PaymentDetails,
			&o.IsPaid,
			&o.PaidAt,
			&o.IsDelivered,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.getOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].OrderItems = items
	}

	return orders, total, nil
}

func (r *PostgresRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, quantity, image, price, size, color
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Quantity,
			&item.Image,
			&item.Price,
			&item.Size,
			&item.Color,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}
