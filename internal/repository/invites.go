package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/cascade"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/models"
)

type InviteRepository struct {
	store   *database.Store
	cascade *cascade.Manager
	now     func() time.Time
}

func NewInviteRepository(store *database.Store, c *cascade.Manager) *InviteRepository {
	return &InviteRepository{store: store, cascade: c, now: time.Now}
}

// Create issues an invite code for the project. Role defaults to member.
func (r *InviteRepository) Create(ctx context.Context, projectID, inviterID uuid.UUID, req models.CreateInviteRequest) (*models.ProjectInvite, error) {
	role := models.RoleMember
	if req.Role != "" {
		var err error
		if role, err = grantable(req.Role); err != nil {
			return nil, r.store.Fail("create invite", err)
		}
	}

	invite := &models.ProjectInvite{
		ProjectID: projectID,
		InviterID: inviterID,
		Role:      role,
		MaxUses:   req.MaxUses,
	}
	if req.ExpiresIn > 0 {
		exp := r.now().Add(time.Duration(req.ExpiresIn) * time.Hour)
		invite.ExpiresAt = &exp
	}

	err := r.store.InTx(ctx, "create invite", func(tx *gorm.DB) error {
		if _, err := lockByID[models.Project](tx, "project", projectID); err != nil {
			return err
		}
		return tx.Create(invite).Error
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// Join redeems an invite code for userID and returns the new membership. The project row is
// locked before the invite row, the same order a project delete takes them in.
func (r *InviteRepository) Join(ctx context.Context, code string, userID uuid.UUID) (*models.Membership, error) {
	var m *models.Membership
	err := r.store.InTx(ctx, "join project", func(tx *gorm.DB) error {
		var found models.ProjectInvite
		if err := tx.Where("invite_code = ?", code).Take(&found).Error; err != nil {
			return apperr.Translate(err, "invite", code)
		}
		if _, err := lockByID[models.Project](tx, "project", found.ProjectID); err != nil {
			return err
		}
		invite, err := lockByID[models.ProjectInvite](tx, "invite", found.ID)
		if err != nil {
			return err
		}
		if _, err := get[models.User](tx, "user", userID); err != nil {
			return err
		}
		if !invite.IsValid(r.now()) {
			return apperr.Invalid("invite has expired or reached its usage limit")
		}

		var existing models.Membership
		err = tx.Where("project_id = ? AND user_id = ?", invite.ProjectID, userID).Take(&existing).Error
		switch {
		case err == nil:
			return apperr.Conflict("already a member of this project")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		m = &models.Membership{ProjectID: invite.ProjectID, UserID: userID, Role: invite.Role}
		if err := tx.Create(m).Error; err != nil {
			return apperr.Translate(err, "membership", userID)
		}
		if err := tx.Model(invite).UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			return err
		}
		return r.cascade.Record(tx, invite.ProjectID, models.ActionMemberJoined, models.EntityProject, invite.ProjectID,
			map[string]any{"userId": userID.String(), "role": string(invite.Role), "invite": invite.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
