package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard-api/internal/middleware"
	"github.com/arnold/taskboard-api/internal/models"
)

func (h *Handler) GetTasks(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	tasks, err := h.repos.Tasks.List(ctx, columnID, c.QueryBool("includeArchived"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(tasks)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.CreateTaskRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	if _, err := h.access.Authorize(ctx, userID, models.EntityColumn, columnID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	task, err := h.repos.Tasks.Create(ctx, columnID, userID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "id", models.EntityTask)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityTask, taskID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	task, err := h.repos.Tasks.Get(ctx, taskID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

// UpdateTask edits task fields (reporter or member)
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "id", models.EntityTask)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.UpdateTaskRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.AuthorizeCreatorOr(ctx, middleware.GetUserID(c), models.EntityTask, taskID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	task, err := h.repos.Tasks.Update(ctx, taskID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

func (h *Handler) UpdateTaskPosition(c *fiber.Ctx) error {
	taskID, err := paramID(c, "id", models.EntityTask)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.PositionRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityTask, taskID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	task, err := h.repos.Tasks.UpdatePosition(ctx, taskID, req.Position)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

// MoveTask puts a task into another column of the same project
func (h *Handler) MoveTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "id", models.EntityTask)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.MoveTaskRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityTask, taskID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	task, err := h.repos.Tasks.Move(ctx, taskID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

func (h *Handler) ReorderTasks(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ReorderRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Tasks.Reorder(ctx, columnID, req.IDs); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ArchiveTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "id", models.EntityTask)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ArchiveRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.AuthorizeCreatorOr(ctx, middleware.GetUserID(c), models.EntityTask, taskID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	task, err := h.repos.Tasks.Archive(ctx, taskID, req.Archived)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(task)
}

// DeleteTask removes a task (reporter or admin)
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "id", models.EntityTask)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.AuthorizeCreatorOr(ctx, middleware.GetUserID(c), models.EntityTask, taskID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Tasks.Delete(ctx, taskID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
