package bid

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
)

const DefaultLimit = 20

type Handler struct {
	repo Repository
}

func NewHandler(r Repository) *Handler { return &Handler{repo: r} }

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/bids", h.getBids)
}

func (h *Handler) getBids(c *fiber.Ctx) error {
	items, err := h.repo.Latest(c.UserContext(), respond.Limit(c, DefaultLimit, 100))
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}
