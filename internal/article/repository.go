package article

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

// Repository lists articles newest first.
type Repository interface {
	Latest(ctx context.Context, limit int) ([]Article, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Article
}

func NewInMemoryRepository(seed []Article) *InMemoryRepository {
	items := append([]Article(nil), seed...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt.After(items[j].PublishedAt) })
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) Latest(_ context.Context, limit int) ([]Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.items)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]Article{}, r.items[:n]...), nil
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, summary, image, url, published_at FROM articles ORDER BY published_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	out := make([]Article, 0)
	for rows.Next() {
		var (
			a   Article
			img sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &img, &a.URL, &a.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if img.Valid {
			a.Image = &img.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
