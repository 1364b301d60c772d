package handlers

import (
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type TaskHandler struct {
	tasks  *services.TaskService
	logger *zerolog.Logger
}

func NewTaskHandler(tasks *services.TaskService, logger *zerolog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		return invalidBody(c)
	}

	result, err := h.tasks.Create(c.UserContext(), &task)
	if err != nil {
		return writeError(c, h.logger, "tasks.create", err)
	}
	return c.JSON(result)
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListByEmail(c.UserContext(), c.Query("email"))
	if err != nil {
		return writeError(c, h.logger, "tasks.list", err)
	}
	return c.JSON(tasks)
}
