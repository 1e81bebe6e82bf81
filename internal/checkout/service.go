package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/cart"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/metrics"
	"github.com/wichananm65/agri-market-backend/internal/order"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	store Store
	pub   cart.Publisher
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewService(store Store, pub cart.Publisher, log logrus.FieldLogger) *Service {
	return &Service{store: store, pub: pub, log: log, now: time.Now}
}

// Checkout turns the caller's cart into a processing order and empties the
// cart in the same write.
func (s *Service) Checkout(ctx context.Context, sess session.Session, promo string) (order.Order, error) {
	if !sess.Authenticated() {
		metrics.Checkouts.WithLabelValues("unauthorized").Inc()
		return order.Order{}, session.ErrUnauthorized
	}

	ord, emptied, err := s.store.PlaceOrder(ctx, sess.UserID, func(lines []cart.Item) (order.Order, error) {
		if len(lines) == 0 {
			return order.Order{}, ErrEmptyCart
		}
		return s.build(sess, lines, promo), nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			metrics.Checkouts.WithLabelValues("empty").Inc()
		} else {
			metrics.Checkouts.WithLabelValues("error").Inc()
			s.log.WithError(err).WithField("user_id", sess.UserID).Error("checkout failed")
		}
		return order.Order{}, err
	}

	metrics.Checkouts.WithLabelValues("ok").Inc()
	s.log.WithFields(logrus.Fields{"user_id": sess.UserID, "order_id": ord.ID, "total": ord.Total.String()}).Info("order placed")
	if s.pub != nil {
		s.pub.Publish(emptied)
	}
	return ord, nil
}

func (s *Service) build(sess session.Session, lines []cart.Item, promo string) order.Order {
	totals := cart.ComputeTotals(lines, promo)
	items := make([]order.Line, 0, len(lines))
	for _, it := range lines {
		items = append(items, order.Line{ProductID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	now := s.now().UTC()
	ord := order.Order{
		ID:          uuid.NewString(),
		UserID:      sess.UserID,
		UserEmail:   sess.Email,
		Items:       items,
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
		Status:      order.StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if totals.PromoApplied {
		ord.PromoCode = strings.ToUpper(strings.TrimSpace(promo))
	}
	return ord
}
