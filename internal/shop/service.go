package shop

import (
	"context"

	"github.com/wichananm65/agri-market-backend/internal/product"
)

// ProductLister is the slice of the product service the shop screen needs.
type ProductLister interface {
	List(ctx context.Context, f product.Filter) ([]product.Product, error)
}

// Service provides business logic for the shop screen.
type Service struct {
	repo     Repository
	products ProductLister
}

func NewService(r Repository, products ProductLister) *Service {
	return &Service{repo: r, products: products}
}

// Details loads a shop together with the products it sells.
func (s *Service) Details(ctx context.Context, id string, limit int) (Details, error) {
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Details{}, err
	}
	products, err := s.products.List(ctx, product.Filter{ShopID: id, Limit: limit})
	if err != nil {
		return Details{}, err
	}
	return Details{Shop: sh, Products: products}, nil
}
