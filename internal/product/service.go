package product

import "context"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	return s.repo.List(ctx, f)
}

// Featured returns the highest rated products for the home feed.
func (s *Service) Featured(ctx context.Context, limit int) ([]Product, error) {
	return s.List(ctx, Filter{Limit: limit, TopRated: true})
}
