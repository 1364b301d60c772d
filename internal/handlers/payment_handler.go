package handlers

import (
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type PaymentHandler struct {
	payments *services.PaymentService
	logger   *zerolog.Logger
}

func NewPaymentHandler(payments *services.PaymentService, logger *zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var payment models.Payment
	if err := c.BodyParser(&payment); err != nil {
		return invalidBody(c)
	}

	result, err := h.payments.Record(c.UserContext(), &payment)
	if err != nil {
		return writeError(c, h.logger, "payments.record", err)
	}
	return c.JSON(fiber.Map{"paymentResult": result})
}

// Details lists the payments made to the email query parameter
func (h *PaymentHandler) Details(c *fiber.Ctx) error {
	payments, err := h.payments.ListFor(c.UserContext(), c.Query("email"))
	if err != nil {
		return writeError(c, h.logger, "payments.details", err)
	}
	return c.JSON(payments)
}

// Receipt returns a temporary download link for the archived receipt
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	link, err := h.payments.ReceiptURL(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, "payments.receipt", err)
	}
	return c.JSON(link)
}
