package cart

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps the units of one product held in a cart.
const MaxQuantity = 10000

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 10000")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrProductNotFound = errors.New("product not found")
)

// Item is a product snapshot held in the cart. ID equals the product id.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    *string         `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Cart is the per-user cart document. Version grows by one on every write.
type Cart struct {
	UserID    string          `json:"userId"`
	Items     map[string]Item `json:"items"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Empty returns an empty cart for userID. Carts are created lazily so this
// is also what a user who never added anything sees.
func Empty(userID string) Cart {
	return Cart{UserID: userID, Items: map[string]Item{}}
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Lines returns the items ordered by name, then id.
func (c Cart) Lines() []Item {
	out := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c Cart) clone() Cart {
	items := make(map[string]Item, len(c.Items))
	for k, v := range c.Items {
		items[k] = v
	}
	c.Items = items
	return c
}

// Mutation edits the item mapping in place. Returning an error aborts the
// write and leaves the stored cart untouched.
type Mutation func(items map[string]Item) error

// Add inserts item or grows the quantity of an existing entry by qty. The
// resulting quantity may not exceed MaxQuantity.
func Add(item Item, qty int) Mutation {
	return func(items map[string]Item) error {
		if qty < 1 || qty > MaxQuantity {
			return ErrInvalidQuantity
		}
		if cur, ok := items[item.ID]; ok {
			if cur.Quantity > MaxQuantity-qty {
				return ErrInvalidQuantity
			}
			cur.Quantity += qty
			items[item.ID] = cur
			return nil
		}
		item.Quantity = qty
		items[item.ID] = item
		return nil
	}
}

// ChangeQuantity applies delta to an entry; a result <= 0 removes it and a
// result above MaxQuantity is rejected.
func ChangeQuantity(id string, delta int) Mutation {
	return func(items map[string]Item) error {
		if delta > MaxQuantity || delta < -MaxQuantity {
			return ErrInvalidQuantity
		}
		cur, ok := items[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		if cur.Quantity > MaxQuantity-delta {
			return ErrInvalidQuantity
		}
		cur.Quantity += delta
		if cur.Quantity <= 0 {
			delete(items, id)
			return nil
		}
		items[id] = cur
		return nil
	}
}

// Remove deletes an entry; removing an absent item is not an error.
func Remove(id string) Mutation {
	return func(items map[string]Item) error {
		delete(items, id)
		return nil
	}
}

// Clear empties the cart.
func Clear() Mutation {
	return func(items map[string]Item) error {
		for k := range items {
			delete(items, k)
		}
		return nil
	}
}
