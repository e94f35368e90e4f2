package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamestore-backend/internal/domains/coupon/model"
)

// PostgresRepository implements CouponRepository on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CouponRepository {
	return &PostgresRepository{db: db}
}

const couponColumns = `
	id, code, description,
	discount_type, discount_value, expiry_date,
	min_purchase_amount, max_usage_limit, usage_count,
	is_active, created_at, updated_at
`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,                // id
		&c.Code,              // code
		&c.Description,       // description
		&c.DiscountType,      // discount_type
		&c.DiscountValue,     // discount_value
		&c.ExpiryDate,        // expiry_date
		&c.MinPurchaseAmount, // min_purchase_amount
		&c.MaxUsageLimit,     // max_usage_limit (nullable)
		&c.UsageCount,        // usage_count
		&c.IsActive,          // is_active
		&c.CreatedAt,         // created_at
		&c.UpdatedAt,         // updated_at
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new coupon
func (r *PostgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (
			code, description, discount_type, discount_value,
			expiry_date, min_purchase_amount, max_usage_limit,
			usage_count, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		coupon.Code,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.ExpiryDate,
		coupon.MinPurchaseAmount,
		coupon.MaxUsageLimit,
		coupon.UsageCount,
		coupon.IsActive,
	).Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("create coupon: %w", err)
	}

	return nil
}

// FindByID finds a coupon by ID
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFoundRow
		}
		return nil, fmt.Errorf("find coupon by id: %w", err)
	}

	return c, nil
}

// FindByCode finds a coupon by its normalized code
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, model.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFoundRow
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}

	return c, nil
}

// Update replaces the mutable fields of a coupon
func (r *PostgresRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2,
		    discount_type = $3,
		    discount_value = $4,
		    expiry_date = $5,
		    min_purchase_amount = $6,
		    max_usage_limit = $7,
		    is_active = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.Description,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.ExpiryDate,
		coupon.MinPurchaseAmount,
		coupon.MaxUsageLimit,
		coupon.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFoundRow
	}

	return nil
}

// List returns coupons matching the filter with the total count
func (r *PostgresRepository) List(ctx context.Context, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	where := "TRUE"
	switch filter.Status {
	case "active":
		where = "is_active = TRUE AND expiry_date >= NOW()"
	case "inactive":
		where = "is_active = FALSE"
	case "expired":
		where = "expiry_date < NOW()"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM coupons WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	query := `SELECT ` + couponColumns + `
		FROM coupons
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.Query(ctx, query, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate coupons: %w", err)
	}

	return coupons, total, nil
}

// Deactivate flips is_active to false.
// No error when already inactive; the write is a no-op then.
func (r *PostgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFoundRow
	}

	return nil
}

// IncrementUsage bumps usage_count atomically at the database
func (r *PostgresRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE code = $1
	`

	tag, err := r.db.Exec(ctx, query, model.NormalizeCode(code))
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFoundRow
	}

	return nil
}
