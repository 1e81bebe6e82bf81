package shop

import "github.com/wichananm65/agri-market-backend/internal/product"

// Shop is a seller page in the storefront.
type Shop struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	Location    string  `json:"location"`
}

// Details is the payload of the shop screen.
type Details struct {
	Shop     Shop              `json:"shop"`
	Products []product.Product `json:"products"`
}
