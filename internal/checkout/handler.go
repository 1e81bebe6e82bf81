package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.checkout)
}

type checkoutRequest struct {
	PromoCode string `json:"promoCode"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return respond.Message(c, fiber.StatusUnauthorized, "sign in to place an order")
	}
	payload := new(checkoutRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return respond.Message(c, fiber.StatusBadRequest, err.Error())
		}
	}

	ord, err := h.service.Checkout(c.UserContext(), sess, payload.PromoCode)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnauthorized):
			return respond.Message(c, fiber.StatusUnauthorized, "sign in to place an order")
		case errors.Is(err, ErrEmptyCart):
			return respond.Message(c, fiber.StatusBadRequest, "your cart is empty")
		default:
			return respond.Message(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(fiber.StatusCreated).JSON(ord)
}
