package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, name, category, price, description, image, rating, shop_id, created_at`

	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if f.ShopID != "" {
		args = append(args, f.ShopID)
		where = append(where, fmt.Sprintf("shop_id = $%d", len(args)))
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	if f.TopRated {
		q += ` ORDER BY rating DESC NULLS LAST, id`
	} else {
		q += ` ORDER BY created_at DESC, id`
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p      Product
		image  sql.NullString
		rating sql.NullFloat64
		shopID sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Description, &image, &rating, &shopID, &p.CreatedAt); err != nil {
		return Product{}, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	if rating.Valid {
		p.Rating = &rating.Float64
	}
	if shopID.Valid {
		p.ShopID = &shopID.String
	}
	return p, nil
}
