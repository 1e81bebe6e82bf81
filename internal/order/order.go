package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order. The app only ever writes
// StatusProcessing; later transitions come from back office tooling.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Line is a purchased product as it was at checkout time.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order represents a purchase made by a user. Amounts are a snapshot and
// never follow later catalog price changes.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	UserEmail   string          `json:"userEmail"`
	Items       []Line          `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	PromoCode   string          `json:"promoCode,omitempty"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
