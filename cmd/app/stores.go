package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/article"
	"github.com/wichananm65/agri-market-backend/internal/bid"
	"github.com/wichananm65/agri-market-backend/internal/cart"
	"github.com/wichananm65/agri-market-backend/internal/category"
	"github.com/wichananm65/agri-market-backend/internal/checkout"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/config"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/database/postgres"
	"github.com/wichananm65/agri-market-backend/internal/order"
	"github.com/wichananm65/agri-market-backend/internal/product"
	"github.com/wichananm65/agri-market-backend/internal/review"
	"github.com/wichananm65/agri-market-backend/internal/session"
	"github.com/wichananm65/agri-market-backend/internal/shop"
	"github.com/wichananm65/agri-market-backend/internal/user"
	"github.com/wichananm65/agri-market-backend/internal/weather"
)

// stores bundles one repository per collection.
type stores struct {
	db *sql.DB

	products   product.Repository
	reviews    review.Repository
	shops      shop.Repository
	categories category.Repository
	articles   article.Repository
	bids       bid.Repository
	weather    weather.Repository
	users      user.Repository
	carts      cart.Repository
	orders     order.Repository
	checkout   checkout.Store
}

func memoryStores(ds inmemory.Dataset) stores {
	carts := cart.NewInMemoryRepository()
	orders := order.NewInMemoryRepository()
	return stores{
		products:   product.NewInMemoryRepository(ds.Products),
		reviews:    review.NewInMemoryRepository(ds.Reviews),
		shops:      shop.NewInMemoryRepository(ds.Shops),
		categories: category.NewInMemoryRepository(ds.Categories),
		articles:   article.NewInMemoryRepository(ds.Articles),
		bids:       bid.NewInMemoryRepository(ds.Bids),
		weather:    weather.NewInMemoryRepository(ds.Weather),
		users:      user.NewInMemoryRepository(nil),
		carts:      carts,
		orders:     orders,
		checkout:   checkout.NewMemoryStore(carts, orders),
	}
}

func postgresStores(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (stores, error) {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, err
	}
	if err := postgres.Apply(ctx, db); err != nil {
		db.Close()
		return stores{}, err
	}
	if seeded, err := postgres.SeedIfEmpty(ctx, db, inmemory.Seed(time.Now())); err != nil {
		log.WithError(err).Warn("demo data not seeded")
	} else if seeded {
		log.Info("seeded empty database with demo data")
	}

	return stores{
		db:         db,
		products:   product.NewPostgresRepository(db),
		reviews:    review.NewPostgresRepository(db),
		shops:      shop.NewPostgresRepository(db),
		categories: category.NewPostgresRepository(db),
		articles:   article.NewPostgresRepository(db),
		bids:       bid.NewPostgresRepository(db),
		weather:    weather.NewPostgresRepository(db),
		users:      user.NewPostgresRepository(db),
		carts:      cart.NewPostgresRepository(db, cfg.CartNotifyChannel),
		orders:     order.NewPostgresRepository(db),
		checkout:   checkout.NewPostgresStore(db, cfg.CartNotifyChannel),
	}, nil
}

// profileCache uses Redis when REDIS_URL is set and falls back to process
// memory otherwise.
func profileCache(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (session.ProfileCache, func()) {
	if cfg.RedisURL == "" {
		return session.NewMemoryCache(), func() {}
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, using in-process profile cache")
		return session.NewMemoryCache(), func() {}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, using in-process profile cache")
		client.Close()
		return session.NewMemoryCache(), func() {}
	}
	return session.NewRedisCache(client, 7*24*time.Hour), func() { client.Close() }
}
