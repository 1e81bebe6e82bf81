package checkout

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/agri-market-backend/internal/cart"
	"github.com/wichananm65/agri-market-backend/internal/infrastructure/logger"
	"github.com/wichananm65/agri-market-backend/internal/order"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

var farmer = session.Session{UserID: "u-1", Email: "farmer@example.com"}

type recordingPublisher struct{ got []cart.Cart }

func (p *recordingPublisher) Publish(c cart.Cart) { p.got = append(p.got, c) }

func fill(t *testing.T, carts *cart.InMemoryRepository) {
	t.Helper()
	ctx := context.Background()
	_, err := carts.Update(ctx, farmer.UserID, cart.Add(cart.Item{ID: "a", Name: "Durian", Price: decimal.NewFromInt(1000)}, 2))
	require.NoError(t, err)
	_, err = carts.Update(ctx, farmer.UserID, cart.Add(cart.Item{ID: "b", Name: "Hoe", Price: decimal.NewFromInt(6000)}, 1))
	require.NoError(t, err)
}

func TestCheckout_EmptyCartWritesNoOrder(t *testing.T) {
	carts, orders := cart.NewInMemoryRepository(), order.NewInMemoryRepository()
	svc := NewService(NewMemoryStore(carts, orders), nil, logger.Discard())

	_, err := svc.Checkout(context.Background(), farmer, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	list, err := orders.ListByUser(context.Background(), farmer.UserID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckout_Anonymous(t *testing.T) {
	svc := NewService(NewMemoryStore(cart.NewInMemoryRepository(), order.NewInMemoryRepository()), nil, logger.Discard())
	_, err := svc.Checkout(context.Background(), session.Session{}, "")
	assert.ErrorIs(t, err, session.ErrUnauthorized)
}

func TestCheckout_PlacesOrderAndEmptiesCart(t *testing.T) {
	carts, orders := cart.NewInMemoryRepository(), order.NewInMemoryRepository()
	fill(t, carts)
	pub := &recordingPublisher{}
	svc := NewService(NewMemoryStore(carts, orders), pub, logger.Discard())

	ord, err := svc.Checkout(context.Background(), farmer, " agri10 ")
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, ord.Status)
	assert.Equal(t, "farmer@example.com", ord.UserEmail)
	assert.Equal(t, "AGRI10", ord.PromoCode)
	assert.True(t, ord.Subtotal.Equal(decimal.NewFromInt(8000)))
	assert.True(t, ord.Discount.Equal(decimal.NewFromInt(800)))
	assert.True(t, ord.DeliveryFee.IsZero())
	assert.True(t, ord.Total.Equal(decimal.NewFromInt(7200)))
	require.Len(t, ord.Items, 2)
	assert.Equal(t, "a", ord.Items[0].ProductID)

	stored, err := orders.GetByID(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Equal(t, ord.ID, stored.ID)

	c, _ := carts.Get(context.Background(), farmer.UserID)
	assert.True(t, c.IsEmpty())
	require.Len(t, pub.got, 1)
	assert.True(t, pub.got[0].IsEmpty())
	assert.Equal(t, c.Version, pub.got[0].Version)
}

type failingOrders struct{ order.Repository }

func (failingOrders) Create(context.Context, order.Order) (order.Order, error) {
	return order.Order{}, errors.New("orders unavailable")
}

func TestCheckout_OrderFailureKeepsCart(t *testing.T) {
	carts := cart.NewInMemoryRepository()
	fill(t, carts)
	svc := NewService(NewMemoryStore(carts, failingOrders{}), nil, logger.Discard())

	_, err := svc.Checkout(context.Background(), farmer, "")
	require.Error(t, err)

	c, _ := carts.Get(context.Background(), farmer.UserID)
	assert.Len(t, c.Items, 2)
}

func cartRows(items string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"items", "version", "updated_at"}).AddRow([]byte(items), int64(3), time.Now())
}

func TestPostgresStore_CommitsOrderAndClearedCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO carts`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("u-1").
		WillReturnRows(cartRows(`{"a":{"id":"a","name":"Durian","image":null,"price":"1000","quantity":2}}`))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE carts SET items`).
		WithArgs([]byte(`{}`), int64(4), sqlmock.AnyArg(), "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT pg_notify`).WithArgs("cart_changes", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	svc := NewService(NewPostgresStore(db, "cart_changes"), nil, logger.Discard())
	ord, err := svc.Checkout(context.Background(), farmer, "")
	require.NoError(t, err)
	assert.True(t, ord.Total.Equal(decimal.NewFromInt(2350)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO carts`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("u-1").
		WillReturnRows(cartRows(`{"a":{"id":"a","name":"Durian","image":null,"price":"1000","quantity":1}}`))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnError(errors.New("constraint violated"))
	mock.ExpectRollback()

	svc := NewService(NewPostgresStore(db, "cart_changes"), nil, logger.Discard())
	_, err = svc.Checkout(context.Background(), farmer, "")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EmptyCartRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO carts`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("u-1").WillReturnRows(cartRows(`{}`))
	mock.ExpectRollback()

	svc := NewService(NewPostgresStore(db, ""), nil, logger.Discard())
	_, err = svc.Checkout(context.Background(), farmer, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRoute(t *testing.T) {
	carts, orders := cart.NewInMemoryRepository(), order.NewInMemoryRepository()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": v}})
		}
		return c.Next()
	})
	NewHandler(NewService(NewMemoryStore(carts, orders), nil, logger.Discard())).RegisterProtectedRoutes(app)

	post := func(user, body string) int {
		req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if user != "" {
			req.Header.Set("X-User-ID", user)
		}
		res, err := app.Test(req)
		require.NoError(t, err)
		return res.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, post("", `{}`))
	assert.Equal(t, fiber.StatusBadRequest, post("u-1", `{}`))

	fill(t, carts)
	assert.Equal(t, fiber.StatusCreated, post("u-1", `{"promoCode":"AGRI10"}`))
	assert.Equal(t, fiber.StatusBadRequest, post("u-1", `{}`), "cart is empty after checkout")
}
