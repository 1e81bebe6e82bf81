package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/infrastructure/metrics"
	"github.com/wichananm65/agri-market-backend/internal/product"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

// ProductReader resolves the snapshot stored with a cart item.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

// Publisher receives every cart state written through the service.
type Publisher interface {
	Publish(c Cart)
}

// Service provides cart operations for the signed-in user.
type Service struct {
	repo     Repository
	products ProductReader
	pub      Publisher
	log      logrus.FieldLogger
}

func NewService(repo Repository, products ProductReader, pub Publisher, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, products: products, pub: pub, log: log}
}

func (s *Service) Get(ctx context.Context, sess session.Session) (Cart, error) {
	if !sess.Authenticated() {
		return Cart{}, session.ErrUnauthorized
	}
	return s.repo.Get(ctx, sess.UserID)
}

// AddItem adds qty units of productID. A zero quantity leaves the cart as it
// is and returns it.
func (s *Service) AddItem(ctx context.Context, sess session.Session, productID string, qty int) (Cart, error) {
	if !sess.Authenticated() {
		return Cart{}, session.ErrUnauthorized
	}
	if qty < 0 || qty > MaxQuantity {
		return Cart{}, ErrInvalidQuantity
	}
	if qty == 0 {
		return s.repo.Get(ctx, sess.UserID)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return Cart{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return Cart{}, err
	}
	item := Item{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price}
	return s.update(ctx, sess, "add", Add(item, qty))
}

func (s *Service) ChangeQuantity(ctx context.Context, sess session.Session, itemID string, delta int) (Cart, error) {
	if !sess.Authenticated() {
		return Cart{}, session.ErrUnauthorized
	}
	if delta > MaxQuantity || delta < -MaxQuantity {
		return Cart{}, ErrInvalidQuantity
	}
	return s.update(ctx, sess, "change", ChangeQuantity(itemID, delta))
}

func (s *Service) RemoveItem(ctx context.Context, sess session.Session, itemID string) (Cart, error) {
	if !sess.Authenticated() {
		return Cart{}, session.ErrUnauthorized
	}
	return s.update(ctx, sess, "remove", Remove(itemID))
}

func (s *Service) Clear(ctx context.Context, sess session.Session) (Cart, error) {
	if !sess.Authenticated() {
		return Cart{}, session.ErrUnauthorized
	}
	return s.update(ctx, sess, "clear", Clear())
}

func (s *Service) update(ctx context.Context, sess session.Session, op string, fn Mutation) (Cart, error) {
	c, err := s.repo.Update(ctx, sess.UserID, fn)
	if err != nil {
		if !errors.Is(err, ErrItemNotFound) && !errors.Is(err, ErrInvalidQuantity) {
			s.log.WithError(err).WithFields(logrus.Fields{"user_id": sess.UserID, "op": op}).Error("cart write failed")
		}
		return Cart{}, err
	}
	metrics.CartMutations.WithLabelValues(op).Inc()
	if s.pub != nil {
		s.pub.Publish(c)
	}
	return c, nil
}
