// Package access decides whether a user may act on an entity, based on the user's membership
// in the project that owns it.
package access

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/hierarchy"
	"github.com/arnold/taskboard-api/internal/models"
)

type Resolver struct {
	store     *database.Store
	hierarchy *hierarchy.Resolver
}

func New(store *database.Store, h *hierarchy.Resolver) *Resolver {
	return &Resolver{store: store, hierarchy: h}
}

// Authorize returns the caller's membership in the project owning the entity if its role is
// at least required.
func (r *Resolver) Authorize(ctx context.Context, userID uuid.UUID, entity models.EntityType, id uuid.UUID, required models.Role) (*models.Membership, error) {
	m, err := r.membership(r.store.DB(ctx), userID, entity, id)
	if err != nil {
		return nil, r.store.Fail("authorize", err)
	}
	if !m.Role.Satisfies(required) {
		return nil, r.store.Fail("authorize", apperr.AccessDenied("%s role required, caller is %s", required, m.Role))
	}
	return m, nil
}

// AuthorizeCreatorOr passes when the caller's role is at least required, or when the caller
// created the board or task being acted on. The creator still needs some membership in the
// project.
func (r *Resolver) AuthorizeCreatorOr(ctx context.Context, userID uuid.UUID, entity models.EntityType, id uuid.UUID, required models.Role) (*models.Membership, error) {
	db := r.store.DB(ctx)
	m, err := r.membership(db, userID, entity, id)
	if err != nil {
		return nil, r.store.Fail("authorize creator", err)
	}
	if m.Role.Satisfies(required) {
		return m, nil
	}

	creator, err := creatorOf(db, entity, id)
	if err != nil {
		return nil, r.store.Fail("authorize creator", err)
	}
	if creator == userID {
		return m, nil
	}
	return nil, r.store.Fail("authorize creator",
		apperr.AccessDenied("only the %s creator or a %s may do this", entity, required))
}

func (r *Resolver) membership(db *gorm.DB, userID uuid.UUID, entity models.EntityType, id uuid.UUID) (*models.Membership, error) {
	projectID, err := r.hierarchy.ProjectID(db, entity, id)
	if err != nil {
		return nil, err
	}

	var m models.Membership
	err = db.Where("project_id = ? AND user_id = ?", projectID, userID).Take(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.AccessDenied("not a member of project %s", projectID)
	case err != nil:
		return nil, errors.Wrap(err, "load membership")
	}
	return &m, nil
}

func creatorOf(db *gorm.DB, entity models.EntityType, id uuid.UUID) (uuid.UUID, error) {
	var ids []uuid.UUID
	var err error
	switch entity {
	case models.EntityBoard:
		err = db.Model(&models.Board{}).Where("id = ?", id).Pluck("creator_id", &ids).Error
	case models.EntityTask:
		err = db.Model(&models.Task{}).Where("id = ?", id).Pluck("reporter_id", &ids).Error
	}
	if err != nil || len(ids) == 0 {
		return uuid.Nil, err
	}
	return ids[0], nil
}
