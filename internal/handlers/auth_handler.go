package handlers

import (
	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	tokens *services.TokenService
	logger *zerolog.Logger
}

func NewAuthHandler(tokens *services.TokenService, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

// IssueToken signs a token for the email in the body.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}

	if err := c.BodyParser(&request); err != nil {
		return invalidBody(c)
	}

	token, err := h.tokens.Issue(request.Email)
	if err != nil {
		return writeError(c, h.logger, "auth.issue_token", err)
	}

	return c.JSON(fiber.Map{"token": token})
}
