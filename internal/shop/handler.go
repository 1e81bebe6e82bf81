package shop

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler { return &Handler{service: s} }

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/shops/:id", h.getShop)
}

func (h *Handler) getShop(c *fiber.Ctx) error {
	details, err := h.service.Details(c.UserContext(), c.Params("id"), respond.Limit(c, 50, 100))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respond.Message(c, fiber.StatusNotFound, "shop not found")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(details)
}
