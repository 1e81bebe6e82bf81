package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price carries no minor units; Image and
// Rating are optional.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       *string         `json:"image"`
	Rating      *float64        `json:"rating,omitempty"`
	ShopID      *string         `json:"shopId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Filter narrows a product listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	ShopID   string
	Limit    int
	// TopRated orders by rating (unrated last) instead of newest first.
	TopRated bool
}
