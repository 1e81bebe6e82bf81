package order

import (
	"context"

	"github.com/wichananm65/agri-market-backend/internal/session"
)

// Service provides read access to a user's orders. Orders are created by
// checkout.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context, sess session.Session, statuses []Status) ([]Order, error) {
	if !sess.Authenticated() {
		return nil, session.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, sess.UserID, statuses)
}

// Get returns one of the caller's orders. Someone else's order is reported
// as not found.
func (s *Service) Get(ctx context.Context, sess session.Session, id string) (Order, error) {
	if !sess.Authenticated() {
		return Order{}, session.ErrUnauthorized
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != sess.UserID {
		return Order{}, ErrNotFound
	}
	return o, nil
}
