package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectOrder = `SELECT id, user_id, user_email, items, subtotal, discount, delivery_fee, total, promo_code, status, created_at, updated_at FROM orders`

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	if err := InsertTx(ctx, r.db, ord); err != nil {
		return Order{}, err
	}
	return ord, nil
}

// InsertTx writes ord through ex so it can share a transaction with other
// writes.
func InsertTx(ctx context.Context, ex Execer, ord Order) error {
	items, err := json.Marshal(ord.Items)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `INSERT INTO orders (id, user_id, user_email, items, subtotal, discount, delivery_fee, total, promo_code, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		ord.ID, ord.UserID, ord.UserEmail, items,
		ord.Subtotal.String(), ord.Discount.String(), ord.DeliveryFee.String(), ord.Total.String(),
		ord.PromoCode, string(ord.Status), ord.CreatedAt, ord.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", ord.ID, err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, statuses []Status) ([]Order, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, string(s))
	}
	rows, err := r.db.QueryContext(ctx, selectOrder+`
		WHERE user_id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		ORDER BY created_at DESC, id`, userID, pq.Array(filter))
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", userID, err)
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (Order, error) {
	var (
		ord    Order
		items  []byte
		status string
	)
	if err := row.Scan(&ord.ID, &ord.UserID, &ord.UserEmail, &items, &ord.Subtotal, &ord.Discount,
		&ord.DeliveryFee, &ord.Total, &ord.PromoCode, &status, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
		return Order{}, err
	}
	ord.Status = Status(status)
	if err := json.Unmarshal(items, &ord.Items); err != nil {
		return Order{}, fmt.Errorf("decode order %s items: %w", ord.ID, err)
	}
	return ord, nil
}
