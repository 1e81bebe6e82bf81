package review

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

type Repository interface {
	ListByProduct(ctx context.Context, productID string, limit int) ([]Review, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
}

func NewInMemoryRepository(seed []Review) *InMemoryRepository {
	return &InMemoryRepository{reviews: append([]Review(nil), seed...)}
}

func (r *InMemoryRepository) ListByProduct(_ context.Context, productID string, limit int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const listByProductQuery = `
	SELECT id, product_id, user_name, rating, body, created_at
	FROM reviews
	WHERE product_id = $1
	ORDER BY created_at DESC
	LIMIT $2
`

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, listByProductQuery, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserName, &rv.Rating, &rv.Body, &rv.Date); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
