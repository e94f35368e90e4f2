package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamestore-backend/internal/domains/product/model"
	"gamestore-backend/pkg/cache"
	"gamestore-backend/pkg/logger"
)

const priceCacheTTL = 5 * time.Minute

// PostgresRepository implements ProductRepository on PostgreSQL with a
// Redis read-through cache for prices.
type PostgresRepository struct {
	db    *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(db *pgxpool.Pool, c cache.Cache) ProductRepository {
	return &PostgresRepository{db: db, cache: c}
}

func priceCacheKey(id uuid.UUID) string {
	return "product:price:" + id.String()
}

// GetPricesByIDs resolves current prices for a set of product IDs.
// Cache misses and cache failures both fall through to the database.
func (r *PostgresRepository) GetPricesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.ProductPrice, error) {
	result := make(map[uuid.UUID]model.ProductPrice, len(ids))
	var missing []uuid.UUID

	for _, id := range ids {
		var cached model.ProductPrice
		found, err := r.cache.Get(ctx, priceCacheKey(id), &cached)
		if err != nil {
			logger.Warn("price cache read failed", map[string]interface{}{
				"productId": id.String(),
				"error":     err.Error(),
			})
		}
		if found {
			result[id] = cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	query := `SELECT id, price FROM products WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, missing)
	if err != nil {
		return nil, fmt.Errorf("get product prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.ProductPrice
		if err := rows.Scan(&p.ID, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product price: %w", err)
		}
		result[p.ID] = p

		if err := r.cache.Set(ctx, priceCacheKey(p.ID), p, priceCacheTTL); err != nil {
			logger.Warn("price cache write failed", map[string]interface{}{
				"productId": p.ID.String(),
				"error":     err.Error(),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product prices: %w", err)
	}

	return result, nil
}
