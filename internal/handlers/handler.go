package handlers

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arnold/taskboard-api/internal/access"
	"github.com/arnold/taskboard-api/internal/actor"
	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/middleware"
	"github.com/arnold/taskboard-api/internal/models"
	"github.com/arnold/taskboard-api/internal/repository"
)

// Handler serves the HTTP API. Every request is authorized against the caller's project
// membership before a repository is called.
type Handler struct {
	store    *database.Store
	repos    *repository.Set
	access   *access.Resolver
	validate *validator.Validate
	log      *logrus.Logger
	timeout  time.Duration
}

func New(store *database.Store, repos *repository.Set, ac *access.Resolver, log *logrus.Logger, timeout time.Duration) *Handler {
	return &Handler{
		store:    store,
		repos:    repos,
		access:   ac,
		validate: validator.New(),
		log:      log,
		timeout:  timeout,
	}
}

// context returns the request context carrying the caller, bounded by the request timeout.
func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	return actor.WithUser(ctx, middleware.GetUserID(c)), cancel
}

func (h *Handler) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Invalid("Invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Invalid("%s", err.Error())
	}
	return nil
}

func paramID(c *fiber.Ctx, name string, entity models.EntityType) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Invalid("Invalid %s ID", entity)
	}
	return id, nil
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:        fiber.StatusNotFound,
	apperr.KindAccessDenied:    fiber.StatusForbidden,
	apperr.KindReorderMismatch: fiber.StatusConflict,
	apperr.KindColumnNotEmpty:  fiber.StatusConflict,
	apperr.KindConflict:        fiber.StatusConflict,
	apperr.KindLimitReached:    fiber.StatusConflict,
	apperr.KindCrossParent:     fiber.StatusUnprocessableEntity,
	apperr.KindInvalid:         fiber.StatusBadRequest,
}

// fail writes err as a JSON error response. Internal errors get a generic message.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		h.log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			"error":      err.Error(),
		}).Error("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong, please retry",
		})
	}

	var e *apperr.Error
	msg := err.Error()
	if errors.As(err, &e) && e.Message != "" {
		msg = e.Message
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"code":  kind,
	})
}
