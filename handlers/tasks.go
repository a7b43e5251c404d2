package handlers

import (
	"errors"

	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/services"
	"github.com/gofiber/fiber/v2"
)

// HandleAllTasks godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks [get]
func (h *Handlers) HandleAllTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.UserContext(), middleware.UserID(c))
	if errors.Is(err, services.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "No tasks found")
	}
	if err != nil {
		return err
	}
	return c.JSON(tasks)
}

// HandleCreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.TaskCreate true "Task"
// @Success 200 {object} models.Task
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *Handlers) HandleCreateTask(c *fiber.Ctx) error {
	var in models.TaskCreate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	task, err := h.tasks.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// HandleGetOneTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handlers) HandleGetOneTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// HandleUpdateTask godoc
// @Summary Update a task; only non-null fields are applied
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body models.TaskUpdate true "Fields to change"
// @Success 200 {object} models.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *Handlers) HandleUpdateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var in models.TaskUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	task, err := h.tasks.Update(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// HandleCompleteTask đánh dấu task là DONE.
// @Summary Mark a task as DONE
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/complete [put]
func (h *Handlers) HandleCompleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Complete(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// HandleDeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *Handlers) HandleDeleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Delete(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func taskID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}
	return uint(id), nil
}

func invalidBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
}
