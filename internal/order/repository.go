package order

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	// ListByUser returns the user's orders newest first. An empty statuses
	// slice means every status.
	ListByUser(ctx context.Context, userID string, statuses []Status) ([]Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]Order)}
}

func (r *InMemoryRepository) Create(_ context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[ord.ID]; exists {
		return Order{}, errors.New("order " + ord.ID + " already exists")
	}
	ord.Items = append([]Line(nil), ord.Items...)
	r.orders[ord.ID] = ord
	return ord, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID string, statuses []Status) ([]Order, error) {
	r.mu.RLock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID && hasStatus(statuses, o.Status) {
			out = append(out, o)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func hasStatus(statuses []Status, s Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, want := range statuses {
		if want == s {
			return true
		}
	}
	return false
}
