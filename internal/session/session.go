package session

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// ErrUnauthorized is returned whenever an operation needs a signed-in user.
var ErrUnauthorized = errors.New("authentication required")

const (
	tokenLocal   = "user" // where gofiber/jwt stores the parsed token
	sessionLocal = "session"
)

// Session identifies the signed-in user for a single request. It is passed
// explicitly into services instead of living in shared state.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// FromClaims builds a session from JWT claims.
func FromClaims(claims jwt.MapClaims) (Session, error) {
	raw, ok := claims["user_id"]
	if !ok {
		return Session{}, ErrUnauthorized
	}
	var s Session
	switch v := raw.(type) {
	case string:
		s.UserID = v
	case float64:
		s.UserID = fmt.Sprintf("%.0f", v)
	case int:
		s.UserID = fmt.Sprint(v)
	default:
		return Session{}, ErrUnauthorized
	}
	if s.UserID == "" {
		return Session{}, ErrUnauthorized
	}
	s.Email, _ = claims["email"].(string)
	s.DisplayName, _ = claims["name"].(string)
	return s, nil
}

// FromCtx returns the session resolved by Middleware, or builds one from
// the JWT stored in c.Locals("user") when the middleware did not run.
func FromCtx(c *fiber.Ctx) (Session, error) {
	if s, ok := c.Locals(sessionLocal).(Session); ok && s.Authenticated() {
		return s, nil
	}
	tok, ok := c.Locals(tokenLocal).(*jwt.Token)
	if !ok || tok == nil {
		return Session{}, ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrUnauthorized
	}
	return FromClaims(claims)
}

// Middleware resolves the request session once and fills a missing display
// name or email from the profile cache.
func Middleware(cache ProfileCache, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := FromCtx(c)
		if err != nil {
			return c.Next()
		}
		if cache != nil && (s.DisplayName == "" || s.Email == "") {
			p, found, err := cache.Get(c.UserContext(), s.UserID)
			if err != nil {
				log.WithError(err).WithField("user_id", s.UserID).Warn("profile cache lookup failed")
			} else if found {
				if s.DisplayName == "" {
					s.DisplayName = p.DisplayName
				}
				if s.Email == "" {
					s.Email = p.Email
				}
			}
		}
		c.Locals(sessionLocal, s)
		return c.Next()
	}
}
