package bid

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an open offer on the produce market board.
type Bid struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Unit        string          `json:"unit"`
	Bidder      string          `json:"bidder"`
	CreatedAt   time.Time       `json:"createdAt"`
}
