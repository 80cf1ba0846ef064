package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/middleware"
)

func (h *Handler) GetMe(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	user, err := h.repos.Users.Get(ctx, middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile returns another user's profile when the caller shares a project with them.
func (h *Handler) GetUserProfile(c *fiber.Ctx) error {
	userID, err := paramID(c, "id", "user")
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	shared, err := h.repos.Users.SharesProject(ctx, middleware.GetUserID(c), userID)
	if err != nil {
		return h.fail(c, err)
	}
	if !shared {
		return h.fail(c, apperr.NotFound("user", userID))
	}
	user, err := h.repos.Users.Get(ctx, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"id":          user.ID,
		"name":        user.Name,
		"displayName": user.DisplayName,
		"avatarUrl":   user.AvatarURL,
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	sqlDB, err := h.store.DB(ctx).DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
