package handlers

import (
	"errors"

	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type filterParams struct {
	ProductName string `query:"productName"`
	Brand       string `query:"brand"`
	Category    string `query:"category"`
	MinPrice    string `query:"minPrice"`
	MaxPrice    string `query:"maxPrice"`
	LowToHigh   string `query:"lowToHigh"`
	NewestFirst string `query:"newestFirst"`
	Page        string `query:"page"`
	Size        string `query:"size"`
}

type ProductHandler struct {
	products *services.ProductService
	logger   *zerolog.Logger
}

func NewProductHandler(products *services.ProductService, logger *zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// List returns every product
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.All(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "products.list", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Paginated(c *fiber.Ctx) error {
	products, err := h.products.Paginated(c.UserContext(), c.Query("page"), c.Query("size"))
	if err != nil {
		return writeError(c, h.logger, "products.paginated", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Count(c *fiber.Ctx) error {
	count, err := h.products.Count(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "products.count", err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// SearchByName matches the path name as a case-insensitive substring
func (h *ProductHandler) SearchByName(c *fiber.Ctx) error {
	products, err := h.products.SearchByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, h.logger, "products.search", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Filtered(c *fiber.Ctx) error {
	var params filterParams
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	page, err := h.products.Filter(c.UserContext(), services.ProductQuery(params))
	if errors.Is(err, services.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		h.logger.Error().Err(err).Str("handler", "products.filtered").Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error fetching products",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.products.Categories(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "products.categories", err)
	}
	return c.JSON(categories)
}

func (h *ProductHandler) Brands(c *fiber.Ctx) error {
	brands, err := h.products.Brands(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "products.brands", err)
	}
	return c.JSON(brands)
}
