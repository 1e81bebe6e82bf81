package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/agri-market-backend/internal/article"
	"github.com/wichananm65/agri-market-backend/internal/bid"
	"github.com/wichananm65/agri-market-backend/internal/cart"
	"github.com/wichananm65/agri-market-backend/internal/category"
	"github.com/wichananm65/agri-market-backend/internal/checkout"
	"github.com/wichananm65/agri-market-backend/internal/home"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/config"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/logger"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/metrics"
	"github.com/wichananm65/agri-market-backend/internal/interface/http/middleware"
	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
	"github.com/wichananm65/agri-market-backend/internal/interface/http/router"
	"github.com/wichananm65/agri-market-backend/internal/order"
	"github.com/wichananm65/agri-market-backend/internal/product"
	"github.com/wichananm65/agri-market-backend/internal/realtime"
	"github.com/wichananm65/agri-market-backend/internal/review"
	"github.com/wichananm65/agri-market-backend/internal/session"
	"github.com/wichananm65/agri-market-backend/internal/shop"
	"github.com/wichananm65/agri-market-backend/internal/user"
	"github.com/wichananm65/agri-market-backend/internal/weather"
)

func main() {
	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	if cfg.DefaultSecret() {
		log.Warn("JWT_SECRET is not set, tokens are signed with a placeholder key")
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st stores
	if cfg.InMemory() {
		log.Warn("DATABASE_URL is not set, running on in-memory demo data")
		st = memoryStores(inmemory.Seed(time.Now()))
	} else {
		st, err = postgresStores(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Fatal("open database")
		}
		defer st.db.Close()
	}

	cache, closeCache := profileCache(ctx, cfg, log)
	defer closeCache()
	tokens := session.NewTokens(cfg.JWTSecret)
	watcher := cart.NewWatcher(st.carts, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(metrics.Middleware())
	app.Use(middleware.RequestLogger(log))

	productService := product.NewService(st.products)
	userHandler := user.NewHandler(user.NewService(st.users), tokens, cache, log)
	userHandler.RegisterPublicRoutes(app)

	home.NewHandler(home.NewService(home.Sources{
		Categories: category.NewService(st.categories),
		Products:   productService,
		Articles:   st.articles,
		Bids:       st.bids,
		Weather:    st.weather,
	}, cfg.WeatherLocation, log)).RegisterPublicRoutes(app)
	category.NewHandler(category.NewService(st.categories)).RegisterPublicRoutes(app)
	article.NewHandler(st.articles).RegisterPublicRoutes(app)
	bid.NewHandler(st.bids).RegisterPublicRoutes(app)
	weather.NewHandler(st.weather, cfg.WeatherLocation).RegisterPublicRoutes(app)
	shop.NewHandler(shop.NewService(st.shops, productService)).RegisterPublicRoutes(app)
	review.NewHandler(st.reviews, productService).RegisterPublicRoutes(app)
	// product routes last so the more specific product paths above win
	product.NewHandler(productService).RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: tokens.Secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return respond.Message(c, fiber.StatusUnauthorized, "unauthorized")
		},
	}))
	app.Use(session.Middleware(cache, log))

	limiter := middleware.NewRateLimiter(cfg.CartRatePerSec, cfg.CartRateBurst, log)
	userHandler.RegisterProtectedRoutes(app)
	cart.NewHandler(cart.NewService(st.carts, productService, watcher, log), limiter.Handler()).RegisterProtectedRoutes(app)
	checkout.NewHandler(checkout.NewService(st.checkout, watcher, log)).RegisterProtectedRoutes(app)
	order.NewHandler(order.NewService(st.orders)).RegisterProtectedRoutes(app)

	rt := &http.Server{
		Addr:              cfg.RealtimeAddr,
		Handler:           router.New(realtime.NewServer(watcher, tokens, log), metrics.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.Addr).Info("api listening")
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		log.WithField("addr", cfg.RealtimeAddr).Info("realtime listening")
		if err := rt.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if !cfg.InMemory() && cfg.CartNotifyChannel != "" {
		bridge, err := realtime.NewBridge(cfg.DatabaseURL, cfg.CartNotifyChannel, st.carts, watcher, log)
		if err != nil {
			log.WithError(err).Warn("cart listener unavailable, live updates stay local to this instance")
		} else {
			g.Go(func() error {
				if err := bridge.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rt.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("realtime shutdown")
		}
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}
