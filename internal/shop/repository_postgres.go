package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Shop, error) {
	var (
		s   Shop
		img sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description, image, location FROM shops WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &img, &s.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shop{}, ErrNotFound
		}
		return Shop{}, fmt.Errorf("get shop %s: %w", id, err)
	}
	if img.Valid {
		s.Image = &img.String
	}
	return s, nil
}
