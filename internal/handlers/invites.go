package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard-api/internal/middleware"
	"github.com/arnold/taskboard-api/internal/models"
)

// GetMembers lists all members of a project
func (h *Handler) GetMembers(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	members, err := h.repos.Memberships.List(ctx, projectID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(members)
}

func (h *Handler) AddMember(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.AddMemberRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	member, err := h.repos.Memberships.Add(ctx, projectID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *Handler) UpdateMember(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	targetID, err := paramID(c, "userId", "user")
	if err != nil {
		return h.fail(c, err)
	}
	var req models.UpdateMemberRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	member, err := h.repos.Memberships.UpdateRole(ctx, projectID, targetID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(member)
}

// RemoveMember removes a member from a project (admin only)
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	targetID, err := paramID(c, "userId", "user")
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.access.Authorize(ctx, middleware.GetUserID(c), models.EntityProject, projectID, models.RoleAdmin); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Memberships.Remove(ctx, projectID, targetID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LeaveProject allows a member to leave a project (not the owner)
func (h *Handler) LeaveProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	if _, err := h.access.Authorize(ctx, userID, models.EntityProject, projectID, models.RoleViewer); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Memberships.Remove(ctx, projectID, userID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateInvite generates an invite code for a project. Admins may always invite; members
// only when the project settings allow it.
func (h *Handler) CreateInvite(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id", models.EntityProject)
	if err != nil {
		return h.fail(c, err)
	}
	var req models.CreateInviteRequest
	if len(c.Body()) > 0 {
		if err := h.bind(c, &req); err != nil {
			return h.fail(c, err)
		}
	}
	ctx, cancel := h.context(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	membership, err := h.access.Authorize(ctx, userID, models.EntityProject, projectID, models.RoleMember)
	if err != nil {
		return h.fail(c, err)
	}
	if !membership.Role.Satisfies(models.RoleAdmin) {
		project, err := h.repos.Projects.Get(ctx, projectID)
		if err != nil {
			return h.fail(c, err)
		}
		if !project.Settings.Data().AllowMemberInvites || req.Role == string(models.RoleAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only admins can invite to this project",
				"code":  "access_denied",
			})
		}
	}

	invite, err := h.repos.Invites.Create(ctx, projectID, userID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

// JoinProject joins a project via invite code
func (h *Handler) JoinProject(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	member, err := h.repos.Invites.Join(ctx, c.Params("code"), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Successfully joined project",
		"projectId": member.ProjectID,
		"role":      member.Role,
	})
}
