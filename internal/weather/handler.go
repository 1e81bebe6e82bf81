package weather

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
)

type Handler struct {
	repo            Repository
	defaultLocation string
}

// NewHandler serves the weather widget. defaultLocation is used when the
// request carries no ?location=.
func NewHandler(r Repository, defaultLocation string) *Handler {
	return &Handler{repo: r, defaultLocation: defaultLocation}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/weather", h.getWeather)
}

func (h *Handler) getWeather(c *fiber.Ctx) error {
	loc := c.Query("location", h.defaultLocation)
	o, err := h.repo.Latest(c.UserContext(), loc)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respond.Message(c, fiber.StatusNotFound, "weather not found")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(o)
}
