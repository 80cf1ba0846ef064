package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/cascade"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/models"
)

// MembershipRepository manages project members. The owner membership is created with the
// project and cannot be granted, changed or removed here.
type MembershipRepository struct {
	store   *database.Store
	cascade *cascade.Manager
}

func NewMembershipRepository(store *database.Store, c *cascade.Manager) *MembershipRepository {
	return &MembershipRepository{store: store, cascade: c}
}

func (r *MembershipRepository) List(ctx context.Context, projectID uuid.UUID) ([]models.MemberInfo, error) {
	var members []models.Membership
	err := r.store.DB(ctx).Where("project_id = ?", projectID).
		Preload("User").
		Order("joined_at").
		Find(&members).Error
	if err != nil {
		return nil, r.store.Fail("list members", err)
	}

	result := make([]models.MemberInfo, 0, len(members))
	for _, m := range members {
		info := models.MemberInfo{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
		if m.User != nil {
			info.Name = m.User.Name
			info.DisplayName = m.User.DisplayName
			info.AvatarURL = m.User.AvatarURL
		}
		result = append(result, info)
	}
	return result, nil
}

func (r *MembershipRepository) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := r.store.DB(ctx).Where("project_id = ? AND user_id = ?", projectID, userID).Take(&m).Error
	if err != nil {
		return nil, r.store.Fail("get member", apperr.Translate(err, "membership", userID))
	}
	return &m, nil
}

// Add grants req.UserID a role in the project. A user holds at most one membership per project.
func (r *MembershipRepository) Add(ctx context.Context, projectID uuid.UUID, req models.AddMemberRequest) (*models.Membership, error) {
	role, err := grantable(req.Role)
	if err != nil {
		return nil, r.store.Fail("add member", err)
	}

	m := &models.Membership{ProjectID: projectID, UserID: req.UserID, Role: role}
	err = r.store.InTx(ctx, "add member", func(tx *gorm.DB) error {
		if _, err := lockByID[models.Project](tx, "project", projectID); err != nil {
			return err
		}
		if _, err := get[models.User](tx, "user", req.UserID); err != nil {
			return err
		}
		if err := tx.Create(m).Error; err != nil {
			return apperr.Translate(err, "membership", req.UserID)
		}
		return r.cascade.Record(tx, projectID, models.ActionMemberJoined, models.EntityProject, projectID,
			map[string]any{"userId": req.UserID.String(), "role": string(role)})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, projectID, userID uuid.UUID, req models.UpdateMemberRequest) (*models.Membership, error) {
	role, err := grantable(req.Role)
	if err != nil {
		return nil, r.store.Fail("update member", err)
	}

	var m models.Membership
	err = r.store.InTx(ctx, "update member", func(tx *gorm.DB) error {
		err := database.Locked(tx).Where("project_id = ? AND user_id = ?", projectID, userID).Take(&m).Error
		if err != nil {
			return apperr.Translate(err, "membership", userID)
		}
		if m.Role == models.RoleOwner {
			return apperr.Invalid("the owner's role cannot be changed")
		}
		from := m.Role
		m.Role = role
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, models.ActionRoleChanged, models.EntityProject, projectID,
			map[string]any{"userId": userID.String(), "from": string(from), "to": string(role)})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Remove deletes a membership. Used both for removing another member and for leaving.
func (r *MembershipRepository) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.store.InTx(ctx, "remove member", func(tx *gorm.DB) error {
		var m models.Membership
		err := database.Locked(tx).Where("project_id = ? AND user_id = ?", projectID, userID).Take(&m).Error
		if err != nil {
			return apperr.Translate(err, "membership", userID)
		}
		if m.Role == models.RoleOwner {
			return apperr.Invalid("the owner cannot leave; delete the project instead")
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, models.ActionMemberRemoved, models.EntityProject, projectID,
			map[string]any{"userId": userID.String()})
	})
}

func grantable(s string) (models.Role, error) {
	role, err := models.ParseRole(s)
	if err != nil {
		return "", apperr.Invalid("%s", err.Error())
	}
	if role == models.RoleOwner {
		return "", apperr.Invalid("the owner role cannot be granted")
	}
	return role, nil
}
