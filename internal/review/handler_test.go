package review

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/agri-market-backend/internal/product"
)

func TestGetReviews(t *testing.T) {
	now := time.Now()
	reviews := NewInMemoryRepository([]Review{
		{ID: "r-1", ProductID: "p-1", UserName: "Somchai", Rating: 4, Body: "good", Date: now.Add(-time.Hour)},
		{ID: "r-2", ProductID: "p-1", UserName: "Malee", Rating: 5, Body: "great", Date: now},
		{ID: "r-3", ProductID: "p-2", UserName: "Other", Rating: 1, Date: now},
	})
	products := product.NewInMemoryRepository([]product.Product{{ID: "p-1", Name: "Rice Seed"}})

	app := fiber.New()
	NewHandler(reviews, products).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/p-1/reviews", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var got []Review
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "r-2", got[0].ID, "newest review first")

	res2, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/p-404/reviews", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res2.StatusCode)
}
