package bid

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

type Repository interface {
	Latest(ctx context.Context, limit int) ([]Bid, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Bid
}

func NewInMemoryRepository(seed []Bid) *InMemoryRepository {
	items := append([]Bid(nil), seed...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) Latest(_ context.Context, limit int) ([]Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.items)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]Bid{}, r.items[:n]...), nil
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]Bid, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, product_name, price, quantity, unit, bidder, created_at FROM bids ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer rows.Close()

	out := make([]Bid, 0)
	for rows.Next() {
		var b Bid
		if err := rows.Scan(&b.ID, &b.ProductName, &b.Price, &b.Quantity, &b.Unit, &b.Bidder, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
