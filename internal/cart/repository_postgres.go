package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresRepository struct {
	db      *sql.DB
	channel string
}

// NewPostgresRepository returns a repository that notifies channel with the
// user id on every committed write. An empty channel disables notifications.
func NewPostgresRepository(db *sql.DB, channel string) *PostgresRepository {
	return &PostgresRepository{db: db, channel: channel}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (Cart, error) {
	c, err := scanCart(r.db.QueryRowContext(ctx, `SELECT items, version, updated_at FROM carts WHERE user_id = $1`, userID), userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Empty(userID), nil
	case err != nil:
		return Cart{}, fmt.Errorf("get cart %s: %w", userID, err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, fn Mutation) (Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Cart{}, fmt.Errorf("begin cart tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	c, err := LockTx(ctx, tx, userID)
	if err != nil {
		return Cart{}, err
	}
	if err := fn(c.Items); err != nil {
		return Cart{}, err
	}
	c, err = WriteTx(ctx, tx, r.channel, c)
	if err != nil {
		return Cart{}, err
	}
	if err := tx.Commit(); err != nil {
		return Cart{}, fmt.Errorf("commit cart: %w", err)
	}
	return c, nil
}

// LockTx makes sure the cart row exists and locks it for the rest of the
// transaction.
func LockTx(ctx context.Context, tx Execer, userID string) (Cart, error) {
	if _, err := tx.ExecContext(ctx, `INSERT INTO carts (user_id, items, version, updated_at) VALUES ($1, '{}', 0, now()) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return Cart{}, fmt.Errorf("ensure cart %s: %w", userID, err)
	}
	c, err := scanCart(tx.QueryRowContext(ctx, `SELECT items, version, updated_at FROM carts WHERE user_id = $1 FOR UPDATE`, userID), userID)
	if err != nil {
		return Cart{}, fmt.Errorf("lock cart %s: %w", userID, err)
	}
	return c, nil
}

// WriteTx stores c with the next version and, when channel is set, queues a
// notification that is delivered on commit.
func WriteTx(ctx context.Context, tx Execer, channel string, c Cart) (Cart, error) {
	raw, err := json.Marshal(c.Items)
	if err != nil {
		return Cart{}, err
	}
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET items = $1, version = $2, updated_at = $3 WHERE user_id = $4`,
		raw, c.Version, c.UpdatedAt, c.UserID); err != nil {
		return Cart{}, fmt.Errorf("write cart %s: %w", c.UserID, err)
	}
	if channel != "" {
		if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, channel, c.UserID); err != nil {
			return Cart{}, fmt.Errorf("notify cart %s: %w", c.UserID, err)
		}
	}
	return c, nil
}

func scanCart(row *sql.Row, userID string) (Cart, error) {
	var (
		raw []byte
		c   = Cart{UserID: userID}
	)
	if err := row.Scan(&raw, &c.Version, &c.UpdatedAt); err != nil {
		return Cart{}, err
	}
	c.Items = map[string]Item{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Items); err != nil {
			return Cart{}, fmt.Errorf("decode cart %s: %w", userID, err)
		}
	}
	if c.Items == nil {
		c.Items = map[string]Item{}
	}
	return c, nil
}
