package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsEmail is the fiber.Ctx locals key holding the verified caller email.
const LocalsEmail = "email"

// TokenParser resolves a bearer token to the email it was issued for.
type TokenParser interface {
	Parse(token string) (string, error)
}

// VerifyToken validates the bearer token and stores the caller email for the next handlers.
func VerifyToken(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get the Authorization header
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c)
		}

		// Ensure it's a Bearer token
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return unauthorized(c)
		}

		email, err := tokens.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(LocalsEmail, email)
		return c.Next()
	}
}

// CallerEmail returns the email VerifyToken stored, or "" when the request is anonymous.
func CallerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalsEmail).(string)
	return email
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized access"})
}
