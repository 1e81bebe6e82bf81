package category

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/categories", h.getCategories)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), respond.Limit(c, DefaultLimit, DefaultLimit))
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(items)
}
