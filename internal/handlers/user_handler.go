package handlers

import (
	"github.com/arzan03/productsdb-api/internal/middleware"
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	users  *services.UserService
	logger *zerolog.Logger
}

func NewUserHandler(users *services.UserService, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return invalidBody(c)
	}

	result, err := h.users.Create(c.UserContext(), &user)
	if err != nil {
		return writeError(c, h.logger, "users.create", err)
	}
	return c.JSON(result)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "users.list", err)
	}
	return c.JSON(users)
}

// IsAdmin must run behind VerifyToken; callers may only ask about themselves.
func (h *UserHandler) IsAdmin(c *fiber.Ctx) error {
	admin, err := h.users.IsAdmin(c.UserContext(), c.Params("email"), middleware.CallerEmail(c))
	if err != nil {
		return writeError(c, h.logger, "users.is_admin", err)
	}
	return c.JSON(fiber.Map{"admin": admin})
}

func (h *UserHandler) MakeAdmin(c *fiber.Ctx) error {
	result, err := h.users.MakeAdmin(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, "users.make_admin", err)
	}
	return c.JSON(result)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	result, err := h.users.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, "users.delete", err)
	}
	return c.JSON(result)
}

func (h *UserHandler) Employees(c *fiber.Ctx) error {
	users, err := h.users.Employees(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "employees.list", err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Verify(c *fiber.Ctx) error {
	result, err := h.users.SetVerified(c.UserContext(), c.Query("email"), c.Query("isVerified"))
	if err != nil {
		return writeError(c, h.logger, "employees.verify", err)
	}
	return c.JSON(result)
}

func (h *UserHandler) MakeHR(c *fiber.Ctx) error {
	result, err := h.users.MakeHR(c.UserContext(), c.Query("email"))
	if err != nil {
		return writeError(c, h.logger, "employees.make_hr", err)
	}
	return c.JSON(result)
}

func (h *UserHandler) UpdateSalary(c *fiber.Ctx) error {
	result, err := h.users.UpdateSalary(c.UserContext(), c.Query("email"), c.Query("newSalary"))
	if err != nil {
		return writeError(c, h.logger, "employees.update_salary", err)
	}
	return c.JSON(result)
}

func (h *UserHandler) VerifiedList(c *fiber.Ctx) error {
	users, err := h.users.VerifiedList(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, "employees.verified", err)
	}
	return c.JSON(users)
}
