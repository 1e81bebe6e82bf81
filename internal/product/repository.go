package product

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, f Filter) ([]Product, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]Product, error) {
	r.mu.RLock()
	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.ShopID != "" && (p.ShopID == nil || *p.ShopID != f.ShopID) {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()

	if f.TopRated {
		sort.SliceStable(out, func(i, j int) bool {
			return ratingOf(out[i]) > ratingOf(out[j])
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func ratingOf(p Product) float64 {
	if p.Rating == nil {
		return -1
	}
	return *p.Rating
}
