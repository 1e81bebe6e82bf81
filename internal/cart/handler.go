package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
	limit   fiber.Handler
}

// NewHandler builds the cart routes. limit guards the mutating endpoints and
// may be nil.
func NewHandler(s *Service, limit fiber.Handler) *Handler {
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &Handler{service: s, limit: limit}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Delete("/api/v1/cart", h.limit, h.clearCart)
	app.Post("/api/v1/cart/items", h.limit, h.addItem)
	app.Patch("/api/v1/cart/items/:id", h.limit, h.changeQuantity)
	app.Delete("/api/v1/cart/items/:id", h.limit, h.removeItem)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return h.fail(c, err)
	}
	cart, err := h.service.Get(c.UserContext(), sess)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(NewView(cart, c.Query("promo")))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return h.fail(c, err)
	}
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Message(c, fiber.StatusBadRequest, err.Error())
	}
	if payload.ProductID == "" {
		return respond.Message(c, fiber.StatusBadRequest, "invalid productId")
	}
	cart, err := h.service.AddItem(c.UserContext(), sess, payload.ProductID, payload.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(NewView(cart, c.Query("promo")))
}

func (h *Handler) changeQuantity(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return h.fail(c, err)
	}
	payload := new(changeQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Message(c, fiber.StatusBadRequest, err.Error())
	}
	cart, err := h.service.ChangeQuantity(c.UserContext(), sess, c.Params("id"), payload.Delta)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(NewView(cart, c.Query("promo")))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return h.fail(c, err)
	}
	cart, err := h.service.RemoveItem(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(NewView(cart, c.Query("promo")))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return h.fail(c, err)
	}
	if _, err := h.service.Clear(c.UserContext(), sess); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		return respond.Message(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrItemNotFound):
		return respond.Message(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidQuantity):
		return respond.Message(c, fiber.StatusBadRequest, err.Error())
	default:
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
}
