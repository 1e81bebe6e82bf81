package bid

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBids(t *testing.T) {
	now := time.Now()
	repo := NewInMemoryRepository([]Bid{
		{ID: "b1", ProductName: "Cassava", Price: decimal.NewFromInt(3), Quantity: 1000, Unit: "kg", CreatedAt: now.Add(-time.Hour)},
		{ID: "b2", ProductName: "Longan", Price: decimal.RequireFromString("42.5"), Quantity: 200, Unit: "kg", CreatedAt: now},
	})
	app := fiber.New()
	NewHandler(repo).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/bids", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	assert.Less(t, strings.Index(body, "Longan"), strings.Index(body, "Cassava"))
	assert.Contains(t, body, "42.5")
}

func TestPostgresRepository_Latest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM bids ORDER BY created_at DESC`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "price", "quantity", "unit", "bidder", "created_at"}).
			AddRow("b1", "Rubber", "61.25", 500, "kg", "Somchai", time.Now()))

	got, err := NewPostgresRepository(db).Latest(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("61.25")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
