package user

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/interface/http/respond"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

type Handler struct {
	service *Service
	tokens  session.Tokens
	cache   session.ProfileCache
	log     logrus.FieldLogger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type profileUpdateRequest struct {
	DisplayName string `json:"displayName"`
}

func NewHandler(service *Service, tokens session.Tokens, cache session.ProfileCache, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, tokens: tokens, cache: cache, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.register)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Message(c, fiber.StatusBadRequest, err.Error())
	}

	u, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return respond.Message(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	sess := session.Session{UserID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
	signed, err := h.tokens.Issue(sess)
	if err != nil {
		return respond.Message(c, fiber.StatusInternalServerError, "failed to generate token")
	}
	h.remember(c, u)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    u,
		"token":   signed,
	})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Message(c, fiber.StatusBadRequest, err.Error())
	}
	if payload.isMissingRequiredFields() {
		return respond.Message(c, fiber.StatusBadRequest, "Missing required fields")
	}

	created, err := h.service.Register(c.UserContext(), payload.Email, payload.Password, payload.DisplayName)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return respond.Message(c, fiber.StatusConflict, "Email already exists")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// getProfile returns the user record for the currently authenticated user.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return respond.Message(c, fiber.StatusUnauthorized, "unauthorized")
	}
	u, err := h.service.GetByID(c.UserContext(), sess.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respond.Message(c, fiber.StatusNotFound, "user not found")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(u)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return respond.Message(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return respond.Message(c, fiber.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(payload.DisplayName) == "" {
		return respond.Message(c, fiber.StatusBadRequest, "displayName is required")
	}
	u, err := h.service.Rename(c.UserContext(), sess.UserID, payload.DisplayName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respond.Message(c, fiber.StatusNotFound, "user not found")
		}
		return respond.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	h.remember(c, u)
	return c.JSON(u)
}

// remember refreshes the profile fallback cache; failures are only logged.
func (h *Handler) remember(c *fiber.Ctx, u User) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Put(c.UserContext(), u.ID, session.Profile{Email: u.Email, DisplayName: u.DisplayName}); err != nil {
		h.log.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}

func (r registerRequest) isMissingRequiredFields() bool {
	return strings.TrimSpace(r.Email) == "" || r.Password == ""
}
