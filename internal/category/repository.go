package category

import (
	"context"
	"sort"
	"sync"
)

// Repository provides access to category rows.
type Repository interface {
	List(ctx context.Context, limit int) ([]Category, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Category
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	items := append([]Category(nil), seed...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Ord != items[j].Ord {
			return items[i].Ord > items[j].Ord
		}
		return items[i].ID < items[j].ID
	})
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) List(_ context.Context, limit int) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Category, n)
	copy(out, r.items[:n])
	return out, nil
}
