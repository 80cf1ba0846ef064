package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard-api/internal/middleware"
	"github.com/arnold/taskboard-api/internal/models"
)

func (h *Handler) GetBoards(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	boards, err := h.repos.Boards.List(ctx, projectID, c.QueryBool("includeArchived"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(boards)
}

func (h *Handler) CreateBoard(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.CreateBoardRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	if _, err := h.access.Authorize(ctx, userID, models.EntityProject, projectID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	board, err := h.repos.Boards.Create(ctx, projectID, userID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// GetBoard returns a board with its columns and tasks unless ?children=false
func (h *Handler) GetBoard(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	board, err := h.repos.Boards.Get(ctx, boardID, c.QueryBool("children", true))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(board)
}

func (h *Handler) UpdateBoard(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.UpdateBoardRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.AuthorizeCreatorOr(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	board, err := h.repos.Boards.Update(ctx, boardID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(board)
}

func (h *Handler) UpdateBoardPosition(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.PositionRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	board, err := h.repos.Boards.UpdatePosition(ctx, boardID, req.Position)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(board)
}

func (h *Handler) ReorderBoards(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ReorderRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleMember); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Boards.Reorder(ctx, projectID, req.IDs); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ArchiveBoard(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ArchiveRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.AuthorizeCreatorOr(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	board, err := h.repos.Boards.Archive(ctx, boardID, req.Archived)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(board)
}

// DeleteBoard removes the board with its columns and tasks (creator or admin)
func (h *Handler) DeleteBoard(c *fiber.Ctx) error {
	boardID, err := paramID(c, "id", models.EntityBoard)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.AuthorizeCreatorOr(ctx, middleware.GetUserID(c), models.EntityBoard, boardID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Boards.Delete(ctx, boardID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
