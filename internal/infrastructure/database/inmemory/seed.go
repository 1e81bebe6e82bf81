// Package inmemory holds the demo data the service starts with when no
// database is configured. The Postgres store seeds the same data into empty
// tables.
package inmemory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/agri-market-backend/internal/article"
	"github.com/wichananm65/agri-market-backend/internal/bid"
	"github.com/wichananm65/agri-market-backend/internal/category"
	"github.com/wichananm65/agri-market-backend/internal/product"
	"github.com/wichananm65/agri-market-backend/internal/review"
	"github.com/wichananm65/agri-market-backend/internal/shop"
	"github.com/wichananm65/agri-market-backend/internal/weather"
)

type Dataset struct {
	Shops      []shop.Shop
	Categories []category.Category
	Products   []product.Product
	Reviews    []review.Review
	Articles   []article.Article
	Bids       []bid.Bid
	Weather    []weather.Observation
}

func str(s string) *string      { return &s }
func rating(v float64) *float64 { return &v }

// Seed builds the demo dataset with timestamps relative to now.
func Seed(now time.Time) Dataset {
	now = now.UTC()
	day := 24 * time.Hour
	greenFarm, hillside := "shop-green-farm", "shop-hillside"

	return Dataset{
		Shops: []shop.Shop{
			{ID: greenFarm, Name: "Green Farm", Description: "Fruit orchards and saplings", Image: str("/shops/green-farm.jpg"), Location: "Chiang Mai"},
			{ID: hillside, Name: "Hillside Tools", Description: "Hand tools and irrigation", Location: "Khon Kaen"},
		},
		Categories: []category.Category{
			{ID: "fruit", Name: "Fruit", Image: str("/category/fruit.png"), Ord: 4},
			{ID: "seeds", Name: "Seeds & saplings", Image: str("/category/seeds.png"), Ord: 3},
			{ID: "tools", Name: "Tools", Image: str("/category/tools.png"), Ord: 2},
			{ID: "fertilizer", Name: "Fertilizer", Ord: 1},
		},
		Products: []product.Product{
			{ID: "p-durian", Name: "Monthong Durian", Category: "fruit", Price: decimal.NewFromInt(1000), Description: "Per fruit, about 3 kg", Image: str("/products/durian.jpg"), Rating: rating(4.8), ShopID: &greenFarm, CreatedAt: now.Add(-10 * day)},
			{ID: "p-mango", Name: "Nam Dok Mai Mango", Category: "fruit", Price: decimal.NewFromInt(120), Description: "1 kg box", Image: str("/products/mango.jpg"), Rating: rating(4.5), ShopID: &greenFarm, CreatedAt: now.Add(-3 * day)},
			{ID: "p-longan-sapling", Name: "Longan Sapling", Category: "seeds", Price: decimal.NewFromInt(250), Description: "Grafted, 60 cm", Rating: rating(4.1), ShopID: &greenFarm, CreatedAt: now.Add(-20 * day)},
			{ID: "p-tiller", Name: "Hand Tiller", Category: "tools", Price: decimal.NewFromInt(6000), Description: "Steel blades, foldable handle", Image: str("/products/tiller.jpg"), Rating: rating(4.6), ShopID: &hillside, CreatedAt: now.Add(-1 * day)},
			{ID: "p-drip-kit", Name: "Drip Irrigation Kit", Category: "tools", Price: decimal.RequireFromString("1890.50"), Description: "Covers 1 rai", ShopID: &hillside, CreatedAt: now.Add(-6 * day)},
			{ID: "p-compost", Name: "Organic Compost 25 kg", Category: "fertilizer", Price: decimal.NewFromInt(180), Description: "Cow manure and rice husk", Rating: rating(3.9), CreatedAt: now.Add(-30 * day)},
		},
		Reviews: []review.Review{
			{ID: "r-1", ProductID: "p-durian", UserName: "Somchai", Rating: 5, Body: "Creamy and sweet, arrived ripe.", Date: now.Add(-2 * day)},
			{ID: "r-2", ProductID: "p-durian", UserName: "Malee", Rating: 4.5, Body: "Good size, a bit pricey.", Date: now.Add(-5 * day)},
			{ID: "r-3", ProductID: "p-tiller", UserName: "Anan", Rating: 4, Body: "Solid build.", Date: now.Add(-12 * time.Hour)},
		},
		Articles: []article.Article{
			{ID: "a-1", Title: "Preparing orchards for the rainy season", Summary: "Drainage, pruning and fungus control.", Image: str("/articles/rain.jpg"), URL: "/articles/a-1", PublishedAt: now.Add(-1 * day)},
			{ID: "a-2", Title: "Durian export prices climb", Summary: "Strong demand keeps farm-gate prices high.", URL: "/articles/a-2", PublishedAt: now.Add(-4 * day)},
		},
		Bids: []bid.Bid{
			{ID: "b-1", ProductName: "Cassava", Price: decimal.RequireFromString("3.20"), Quantity: 5000, Unit: "kg", Bidder: "Korat Starch Co.", CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "b-2", ProductName: "Rubber sheet", Price: decimal.RequireFromString("61.50"), Quantity: 800, Unit: "kg", Bidder: "Southern Latex", CreatedAt: now.Add(-26 * time.Hour)},
		},
		Weather: []weather.Observation{
			{Location: "Chiang Mai", Condition: "light rain", TemperatureC: 26.5, Humidity: 82, ObservedAt: now.Add(-30 * time.Minute)},
			{Location: "Khon Kaen", Condition: "sunny", TemperatureC: 33, Humidity: 55, ObservedAt: now.Add(-45 * time.Minute)},
		},
	}
}
