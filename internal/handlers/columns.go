package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/middleware"
	"github.com/arnold/taskboard-api/internal/models"
)

func (h *Handler) GetColumns(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	cols, err := h.repos.Columns.List(ctx, boardID, c.QueryBool("includeArchived"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cols)
}

func (h *Handler) CreateColumn(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.CreateColumnRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	col, err := h.repos.Columns.Create(ctx, boardID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(col)
}

func (h *Handler) GetColumn(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	col, err := h.repos.Columns.Get(ctx, columnID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(col)
}

func (h *Handler) UpdateColumn(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.UpdateColumnRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	col, err := h.repos.Columns.Update(ctx, columnID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(col)
}

func (h *Handler) UpdateColumnPosition(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.PositionRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	col, err := h.repos.Columns.UpdatePosition(ctx, columnID, req.Position)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(col)
}

func (h *Handler) ReorderColumns(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ReorderRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Columns.Reorder(ctx, boardID, req.IDs); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ArchiveColumn(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ArchiveRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	col, err := h.repos.Columns.Archive(ctx, columnID, req.Archived)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(col)
}

// DeleteColumn removes a column (admin only). A column with tasks needs ?moveTasksTo=<columnId>.
func (h *Handler) DeleteColumn(c *fiber.Ctx) error {
	columnID, err := paramID(c, "id", models.EntityColumn)
	if err != nil {
		return h.fail(c, err)
	}
	var moveTasksTo *uuid.UUID
	if raw := c.Query("moveTasksTo"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			return h.fail(c, apperr.Invalid("Invalid moveTasksTo column ID"))
		}
		moveTasksTo = &target
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityColumn, columnID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Columns.Delete(ctx, columnID, moveTasksTo); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
