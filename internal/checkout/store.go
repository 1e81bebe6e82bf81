package checkout

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/agri-market-backend/internal/cart"
	"github.com/wichananm65/agri-market-backend/internal/order"
)

// BuildFunc turns the locked cart lines into the order to persist. An error
// aborts the checkout without any write.
type BuildFunc func(lines []cart.Item) (order.Order, error)

// Store writes the order and empties the cart as one unit: either both
// happen or neither does.
type Store interface {
	PlaceOrder(ctx context.Context, userID string, build BuildFunc) (order.Order, cart.Cart, error)
}

// PostgresStore runs checkout inside a single transaction holding the cart
// row lock.
type PostgresStore struct {
	db      *sql.DB
	channel string
}

func NewPostgresStore(db *sql.DB, channel string) *PostgresStore {
	return &PostgresStore{db: db, channel: channel}
}

func (s *PostgresStore) PlaceOrder(ctx context.Context, userID string, build BuildFunc) (order.Order, cart.Cart, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return order.Order{}, cart.Cart{}, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	c, err := cart.LockTx(ctx, tx, userID)
	if err != nil {
		return order.Order{}, cart.Cart{}, err
	}
	ord, err := build(c.Lines())
	if err != nil {
		return order.Order{}, cart.Cart{}, err
	}
	if err := order.InsertTx(ctx, tx, ord); err != nil {
		return order.Order{}, cart.Cart{}, err
	}
	_ = cart.Clear()(c.Items)
	c, err = cart.WriteTx(ctx, tx, s.channel, c)
	if err != nil {
		return order.Order{}, cart.Cart{}, err
	}
	if err := tx.Commit(); err != nil {
		return order.Order{}, cart.Cart{}, fmt.Errorf("commit checkout: %w", err)
	}
	return ord, c, nil
}

// MemoryStore places the order from inside the cart update, so the cart
// lock is held across both writes.
type MemoryStore struct {
	carts  cart.Repository
	orders order.Repository
}

func NewMemoryStore(carts cart.Repository, orders order.Repository) *MemoryStore {
	return &MemoryStore{carts: carts, orders: orders}
}

func (s *MemoryStore) PlaceOrder(ctx context.Context, userID string, build BuildFunc) (order.Order, cart.Cart, error) {
	var placed order.Order
	c, err := s.carts.Update(ctx, userID, func(items map[string]cart.Item) error {
		ord, err := build(cart.Cart{Items: items}.Lines())
		if err != nil {
			return err
		}
		if placed, err = s.orders.Create(ctx, ord); err != nil {
			return err
		}
		return cart.Clear()(items)
	})
	if err != nil {
		return order.Order{}, cart.Cart{}, err
	}
	return placed, c, nil
}
