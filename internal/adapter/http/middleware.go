package http

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// BearerAuth returns a middleware that validates the authorization token
// from the request headers.
// If the token is missing or invalid, it responds with 401 Unauthorized.
// If valid, it calls the next handler.
func BearerAuth(validToken string) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token != validToken {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		return c.Next()
	}
}
