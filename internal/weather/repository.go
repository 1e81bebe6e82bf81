package weather

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("weather not found")

// Repository returns the most recent observation for a location. An empty
// location means any location.
type Repository interface {
	Latest(ctx context.Context, location string) (Observation, error)
}

type InMemoryRepository struct {
	mu   sync.RWMutex
	seen []Observation
}

func NewInMemoryRepository(seed []Observation) *InMemoryRepository {
	return &InMemoryRepository{seen: append([]Observation(nil), seed...)}
}

func (r *InMemoryRepository) Latest(_ context.Context, location string) (Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best  Observation
		found bool
	)
	for _, o := range r.seen {
		if location != "" && !strings.EqualFold(o.Location, location) {
			continue
		}
		if !found || o.ObservedAt.After(best.ObservedAt) {
			best, found = o, true
		}
	}
	if !found {
		return Observation{}, ErrNotFound
	}
	return best, nil
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Latest(ctx context.Context, location string) (Observation, error) {
	var o Observation
	err := r.db.QueryRowContext(ctx, `SELECT location, condition, temperature_c, humidity, observed_at FROM weather
		WHERE $1 = '' OR lower(location) = lower($1)
		ORDER BY observed_at DESC LIMIT 1`, location).
		Scan(&o.Location, &o.Condition, &o.TemperatureC, &o.Humidity, &o.ObservedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Observation{}, ErrNotFound
		}
		return Observation{}, fmt.Errorf("latest weather: %w", err)
	}
	return o, nil
}
