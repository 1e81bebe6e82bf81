package review

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
	"github.com/wichananm65/agri-market-backend/internal/product"
)

// ProductGetter confirms the reviewed product exists.
type ProductGetter interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

type Handler struct {
	repo     Repository
	products ProductGetter
}

func NewHandler(repo Repository, products ProductGetter) *Handler {
	return &Handler{repo: repo, products: products}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products/:id/reviews", h.getReviews)
}

func (h *Handler) getReviews(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.products.GetByID(c.UserContext(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return respond.Message(c, fiber.StatusNotFound, "product not found")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}

	reviews, err := h.repo.ListByProduct(c.UserContext(), id, respond.Limit(c, 20, 100))
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(reviews)
}
