package home

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
	app.Get("/api/v1/home", h.getHome)
}

func (h *Handler) getHome(c *fiber.Ctx) error {
	feed, err := h.service.Feed(c.UserContext())
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(feed)
}
