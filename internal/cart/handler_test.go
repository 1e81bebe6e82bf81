package cart

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/agri-market-backend/internal/infrastructure/logger"
	"github.com/wichananm65/agri-market-backend/internal/product"
)

func makeAppWithCartHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": v}})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newTestHandler() (*Handler, *Watcher) {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: "a", Name: "Durian", Price: d("1000")},
		{ID: "b", Name: "Tractor seat", Price: d("6000")},
	})
	repo := NewInMemoryRepository()
	w := NewWatcher(repo, logger.Discard())
	return NewHandler(NewService(repo, products, w, logger.Discard()), nil), w
}

func do(t *testing.T, app *fiber.App, method, url, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, r)
	req.Header.Set("X-User-ID", "u-42")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func decodeView(t *testing.T, b []byte) View {
	t.Helper()
	var v View
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode view: %v (%s)", err, b)
	}
	return v
}

func TestCartRoutes_Flow(t *testing.T) {
	h, _ := newTestHandler()
	app := makeAppWithCartHandler(h)

	// unauthenticated access is blocked
	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	status, b := do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":2}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 adding item, got %d: %s", status, b)
	}
	status, _ = do(t, app, "POST", "/api/v1/cart/items", `{"productId":"b","quantity":1}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 adding second item, got %d", status)
	}

	_, b = do(t, app, "GET", "/api/v1/cart", "")
	v := decodeView(t, b)
	if len(v.Items) != 2 || v.Items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", v.Items)
	}
	if !v.Totals.Total.Equal(d("8000")) || !v.Totals.DeliveryFee.IsZero() {
		t.Fatalf("unexpected totals: %+v", v.Totals)
	}

	_, b = do(t, app, "GET", "/api/v1/cart?promo=agri10", "")
	if v := decodeView(t, b); !v.Totals.Total.Equal(d("7200")) || !v.Totals.Discount.Equal(d("800")) {
		t.Fatalf("promo not applied: %+v", v.Totals)
	}

	// decrementing to zero removes the entry
	_, b = do(t, app, "PATCH", "/api/v1/cart/items/a", `{"delta":-2}`)
	if v := decodeView(t, b); len(v.Items) != 1 || v.Items[0].ID != "b" {
		t.Fatalf("expected only b left, got %+v", v.Items)
	}

	status, _ = do(t, app, "PATCH", "/api/v1/cart/items/a", `{"delta":1}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 changing a missing item, got %d", status)
	}

	_, b = do(t, app, "DELETE", "/api/v1/cart/items/b", "")
	if v := decodeView(t, b); len(v.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", v.Items)
	}

	status, _ = do(t, app, "DELETE", "/api/v1/cart", "")
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear cart, got %d", status)
	}
}

func TestCartRoutes_Validation(t *testing.T) {
	h, _ := newTestHandler()
	app := makeAppWithCartHandler(h)

	cases := []struct {
		body string
		want int
	}{
		{`{"productId":"a","quantity":-1}`, fiber.StatusBadRequest},
		{`{"quantity":1}`, fiber.StatusBadRequest},
		{`{"productId":"nope","quantity":1}`, fiber.StatusNotFound},
		{`{"productId":"a","quantity":0}`, fiber.StatusOK},
	}
	for _, tc := range cases {
		status, b := do(t, app, "POST", "/api/v1/cart/items", tc.body)
		if status != tc.want {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.body, tc.want, status, b)
		}
	}
}

func TestCartRoutes_QuantityLimits(t *testing.T) {
	h, _ := newTestHandler()
	app := makeAppWithCartHandler(h)

	status, b := do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":9223372036854775807}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a huge quantity, got %d (%s)", status, b)
	}

	status, b = do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":10000}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 at the cap, got %d (%s)", status, b)
	}
	if status, _ = do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":1}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 adding past the cap, got %d", status)
	}
	if status, _ = do(t, app, "PATCH", "/api/v1/cart/items/a", `{"delta":9223372036854775807}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a huge delta, got %d", status)
	}

	_, b = do(t, app, "GET", "/api/v1/cart", "")
	v := decodeView(t, b)
	if len(v.Items) != 1 || v.Items[0].Quantity != 10000 {
		t.Fatalf("cart changed by rejected writes: %+v", v.Items)
	}
	if !v.Totals.Total.Equal(d("10000000")) {
		t.Fatalf("unexpected total: %s", v.Totals.Total)
	}
}

func TestCartRoutes_RateLimited(t *testing.T) {
	products := product.NewInMemoryRepository([]product.Product{{ID: "a", Name: "Durian", Price: d("1")}})
	calls := 0
	limit := func(c *fiber.Ctx) error {
		calls++
		if calls > 1 {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "too many requests"})
		}
		return c.Next()
	}
	h := NewHandler(NewService(NewInMemoryRepository(), products, nil, logger.Discard()), limit)
	app := makeAppWithCartHandler(h)

	if status, _ := do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":1}`); status != fiber.StatusOK {
		t.Fatalf("first add should pass, got %d", status)
	}
	if status, _ := do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":1}`); status != fiber.StatusTooManyRequests {
		t.Fatalf("second add should be limited, got %d", status)
	}
	if status, _ := do(t, app, "GET", "/api/v1/cart", ""); status != fiber.StatusOK {
		t.Fatalf("reads are not limited, got %d", status)
	}
}

func TestCartRoutes_PublishesWrites(t *testing.T) {
	h, w := newTestHandler()
	app := makeAppWithCartHandler(h)

	got := make(chan Cart, 4)
	defer w.Subscribe("u-42", func(c Cart) { got <- c })()

	do(t, app, "POST", "/api/v1/cart/items", `{"productId":"a","quantity":1}`)
	c := recv(t, got)
	if c.Items["a"].Quantity != 1 {
		t.Fatalf("expected published cart with a x1, got %+v", c.Items)
	}
}
