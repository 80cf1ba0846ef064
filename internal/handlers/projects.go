package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard-api/internal/middleware"
	"github.com/arnold/taskboard-api/internal/models"
)

func (h *Handler) GetProjects(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	projects, err := h.repos.Projects.ListForUser(ctx, middleware.GetUserID(c), c.QueryBool("includeArchived"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(projects)
}

func (h *Handler) CreateProject(c *fiber.Ctx) error {
	var req models.CreateProjectRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	project, err := h.repos.Projects.Create(ctx, middleware.GetUserID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *Handler) GetProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	membership, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleViewer)
	if err != nil {
		return h.fail(c, err)
	}
	project, err := h.repos.Projects.Get(ctx, projectID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"project": project,
		"role":    membership.Role,
	})
}

func (h *Handler) UpdateProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.UpdateProjectRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	project, err := h.repos.Projects.Update(ctx, projectID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(project)
}

func (h *Handler) ArchiveProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.ArchiveRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	project, err := h.repos.Projects.Archive(ctx, projectID, req.Archived)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(project)
}

// DeleteProject removes the project with all boards, columns, tasks and memberships (owner only)
func (h *Handler) DeleteProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleOwner); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Projects.Delete(ctx, projectID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetProjectActivity returns paginated activity for a project
func (h *Handler) GetProjectActivity(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	activities, total, err := h.repos.Activity.List(ctx, projectID, page, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}
