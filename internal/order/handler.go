package order

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

// Handler serves the orders list and order details screens.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
}

// getOrders returns the caller's orders, optionally filtered with
// ?status=processing,shipped.
func (h *Handler) getOrders(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return respond.Message(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var statuses []Status
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s := Status(strings.ToLower(strings.TrimSpace(part)))
			if !s.Valid() {
				return respond.Message(c, fiber.StatusBadRequest, "invalid status "+part)
			}
			statuses = append(statuses, s)
		}
	}

	orders, err := h.service.List(c.UserContext(), sess, statuses)
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return respond.Message(c, fiber.StatusUnauthorized, "unauthorized")
	}
	o, err := h.service.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respond.Message(c, fiber.StatusNotFound, "order not found")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(o)
}
