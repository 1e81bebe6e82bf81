// Package respond holds the small helpers every fiber handler shares:
// the {"message": ...} error body and limit query parsing.
package respond

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Message writes a JSON error body with the given status.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// Limit reads ?limit=, falling back to def for missing, invalid or
// non-positive values and capping at max when max > 0.
func Limit(c *fiber.Ctx, def, max int) int {
	limit := def
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}
