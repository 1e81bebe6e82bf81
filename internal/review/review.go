package review

import "time"

// Review is read-only from the storefront's point of view.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserName  string    `json:"userName"`
	Rating    float64   `json:"rating"`
	Body      string    `json:"body"`
	Date      time.Time `json:"date"`
}
