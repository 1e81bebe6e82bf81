package home

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/agri-market-backend/internal/article"
	"github.com/wichananm65/agri-market-backend/internal/bid"
	"github.com/wichananm65/agri-market-backend/internal/category"
	"github.com/wichananm65/agri-market-backend/internal/product"
	"github.com/wichananm65/agri-market-backend/internal/weather"
)

// Section sizes of the home screen.
const (
	CategoryCount = 20
	FeaturedCount = 8
	ArticleCount  = 5
	BidCount      = 10
)

// Feed is everything the home screen renders in one response.
type Feed struct {
	Categories []category.Category  `json:"categories"`
	Featured   []product.Product    `json:"featured"`
	Articles   []article.Article    `json:"articles"`
	Bids       []bid.Bid            `json:"bids"`
	Weather    *weather.Observation `json:"weather"`
}

type (
	CategoryLister interface {
		List(ctx context.Context, limit int) ([]category.Category, error)
	}
	FeaturedLister interface {
		Featured(ctx context.Context, limit int) ([]product.Product, error)
	}
	ArticleLister interface {
		Latest(ctx context.Context, limit int) ([]article.Article, error)
	}
	BidLister interface {
		Latest(ctx context.Context, limit int) ([]bid.Bid, error)
	}
	WeatherReader interface {
		Latest(ctx context.Context, location string) (weather.Observation, error)
	}
)

// Sources groups the readers the feed is built from.
type Sources struct {
	Categories CategoryLister
	Products   FeaturedLister
	Articles   ArticleLister
	Bids       BidLister
	Weather    WeatherReader
}

type Service struct {
	src      Sources
	location string
	log      logrus.FieldLogger
}

func NewService(src Sources, location string, log logrus.FieldLogger) *Service {
	return &Service{src: src, location: location, log: log}
}

// Feed runs the section reads concurrently. The weather widget is optional:
// its failure leaves Weather nil, any other failure fails the feed.
func (s *Service) Feed(ctx context.Context) (Feed, error) {
	var f Feed
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		f.Categories, err = s.src.Categories.List(gctx, CategoryCount)
		return err
	})
	g.Go(func() (err error) {
		f.Featured, err = s.src.Products.Featured(gctx, FeaturedCount)
		return err
	})
	g.Go(func() (err error) {
		f.Articles, err = s.src.Articles.Latest(gctx, ArticleCount)
		return err
	})
	g.Go(func() (err error) {
		f.Bids, err = s.src.Bids.Latest(gctx, BidCount)
		return err
	})
	g.Go(func() error {
		o, err := s.src.Weather.Latest(gctx, s.location)
		switch {
		case err == nil:
			f.Weather = &o
		case errors.Is(err, weather.ErrNotFound):
		default:
			s.log.WithError(err).WithField("location", s.location).Warn("home: weather unavailable")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Feed{}, err
	}
	return f, nil
}
