package cart

import (
	"context"
	"sync"
	"time"
)

// Repository stores cart documents. Update runs fn against the current
// items and persists the result atomically with respect to other writers
// of the same cart, bumping the version.
type Repository interface {
	Get(ctx context.Context, userID string) (Cart, error)
	Update(ctx context.Context, userID string, fn Mutation) (Cart, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.Mutex
	carts map[string]Cart
	now   func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[string]Cart), now: time.Now}
}

func (r *InMemoryRepository) Get(_ context.Context, userID string) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return Empty(userID), nil
	}
	return c.clone(), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID string, fn Mutation) (Cart, error) {
	if err := ctx.Err(); err != nil {
		return Cart{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		c = Empty(userID)
	}
	next := c.clone()
	if err := fn(next.Items); err != nil {
		return Cart{}, err
	}
	next.Version = c.Version + 1
	next.UpdatedAt = r.now().UTC()
	r.carts[userID] = next
	return next.clone(), nil
}
