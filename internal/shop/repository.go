package shop

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("shop not found")

// Repository provides access to shop documents.
type Repository interface {
	GetByID(ctx context.Context, id string) (Shop, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	shops map[string]Shop
}

func NewInMemoryRepository(seed []Shop) *InMemoryRepository {
	r := &InMemoryRepository{shops: make(map[string]Shop, len(seed))}
	for _, s := range seed {
		r.shops[s.ID] = s
	}
	return r
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shops[id]
	if !ok {
		return Shop{}, ErrNotFound
	}
	return s, nil
}
