package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PromoCode is the only code the storefront accepts.
const PromoCode = "AGRI10"

var (
	DiscountRate          = decimal.RequireFromString("0.10")
	FreeDeliveryThreshold = decimal.NewFromInt(5000)
	FlatDeliveryFee       = decimal.NewFromInt(350)
)

// Totals are always derived from the item list, never stored on the cart.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Total        decimal.Decimal `json:"total"`
	PromoApplied bool            `json:"promoApplied"`
}

// PromoApplies matches code against PromoCode ignoring case and
// surrounding whitespace.
func PromoApplies(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), PromoCode)
}

func ComputeTotals(items []Item, promo string) Totals {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	t := Totals{Subtotal: sub, Discount: decimal.Zero, DeliveryFee: FlatDeliveryFee}
	if PromoApplies(promo) {
		t.Discount = sub.Mul(DiscountRate)
		t.PromoApplied = true
	}
	if sub.GreaterThan(FreeDeliveryThreshold) {
		t.DeliveryFee = decimal.Zero
	}
	t.Total = sub.Sub(t.Discount).Add(t.DeliveryFee)
	return t
}

// View is the cart as rendered to clients, REST and websocket alike.
type View struct {
	Items     []Item    `json:"items"`
	Totals    Totals    `json:"totals"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewView(c Cart, promo string) View {
	lines := c.Lines()
	return View{
		Items:     lines,
		Totals:    ComputeTotals(lines, promo),
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
	}
}
