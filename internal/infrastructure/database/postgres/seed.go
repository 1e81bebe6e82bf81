package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/agri-market-backend/internal/infrastructure/database/inmemory"
)

// SeedIfEmpty loads ds into a database whose product table is empty, all in
// one transaction. It reports whether anything was written.
func SeedIfEmpty(ctx context.Context, db *sql.DB, ds inmemory.Dataset) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback() //nolint:errcheck

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	exec := func(query string, args ...any) {
		if err != nil {
			return
		}
		_, err = tx.ExecContext(ctx, query, args...)
	}
	for _, s := range ds.Shops {
		exec(`INSERT INTO shops (id, name, description, image, location) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Name, s.Description, s.Image, s.Location)
	}
	for _, c := range ds.Categories {
		exec(`INSERT INTO categories (id, name, image, ord) VALUES ($1,$2,$3,$4) ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Name, c.Image, c.Ord)
	}
	for _, p := range ds.Products {
		exec(`INSERT INTO products (id, name, category, price, description, image, rating, shop_id, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Category, p.Price.String(), p.Description, p.Image, p.Rating, p.ShopID, p.CreatedAt)
	}
	for _, r := range ds.Reviews {
		exec(`INSERT INTO reviews (id, product_id, user_name, rating, body, created_at) VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`,
			r.ID, r.ProductID, r.UserName, r.Rating, r.Body, r.Date)
	}
	for _, a := range ds.Articles {
		exec(`INSERT INTO articles (id, title, summary, image, url, published_at) VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Title, a.Summary, a.Image, a.URL, a.PublishedAt)
	}
	for _, b := range ds.Bids {
		exec(`INSERT INTO bids (id, product_name, price, quantity, unit, bidder, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (id) DO NOTHING`,
			b.ID, b.ProductName, b.Price.String(), b.Quantity, b.Unit, b.Bidder, b.CreatedAt)
	}
	for _, w := range ds.Weather {
		exec(`INSERT INTO weather (location, condition, temperature_c, humidity, observed_at) VALUES ($1,$2,$3,$4,$5)`,
			w.Location, w.Condition, w.TemperatureC, w.Humidity, w.ObservedAt)
	}
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
