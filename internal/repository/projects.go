package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/cascade"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/models"
)

type ProjectRepository struct {
	store   *database.Store
	cascade *cascade.Manager
}

func NewProjectRepository(store *database.Store, c *cascade.Manager) *ProjectRepository {
	return &ProjectRepository{store: store, cascade: c}
}

// Create inserts a project owned by ownerID together with the owner's membership.
func (r *ProjectRepository) Create(ctx context.Context, ownerID uuid.UUID, req models.CreateProjectRequest) (*models.Project, error) {
	settings := models.ProjectSettings{}
	if req.Settings != nil {
		settings = *req.Settings
	}
	p := &models.Project{
		Name:     req.Name,
		Color:    req.Color,
		OwnerID:  ownerID,
		Settings: datatypes.NewJSONType(settings.Normalized()),
	}
	if p.Color == "" {
		p.Color = "#2563eb"
	}

	err := r.store.InTx(ctx, "create project", func(tx *gorm.DB) error {
		if _, err := get[models.User](tx, "user", ownerID); err != nil {
			return err
		}
		return r.cascade.CreateProject(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := get[models.Project](r.store.DB(ctx), "project", id)
	if err != nil {
		return nil, r.store.Fail("get project", err)
	}
	return p, nil
}

// ListForUser returns the projects userID is a member of, newest first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Project, error) {
	q := r.store.DB(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID)
	if !includeArchived {
		q = q.Where("projects.archived = ?", false)
	}

	var projects []models.Project
	if err := q.Order("projects.created_at DESC").Find(&projects).Error; err != nil {
		return nil, r.store.Fail("list projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	var p *models.Project
	err := r.store.InTx(ctx, "update project", func(tx *gorm.DB) error {
		var err error
		if p, err = lockByID[models.Project](tx, "project", id); err != nil {
			return err
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Color != nil {
			p.Color = *req.Color
		}
		if req.Settings != nil {
			p.Settings = datatypes.NewJSONType(req.Settings.Normalized())
		}
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Archive(ctx context.Context, id uuid.UUID, archived bool) (*models.Project, error) {
	var p *models.Project
	err := r.store.InTx(ctx, "archive project", func(tx *gorm.DB) error {
		if err := r.cascade.Archive(tx, models.EntityProject, id, archived); err != nil {
			return err
		}
		action := models.ActionProjectArchived
		if !archived {
			action = models.ActionUnarchived
		}
		if err := r.cascade.Record(tx, id, action, models.EntityProject, id, nil); err != nil {
			return err
		}
		var err error
		p, err = get[models.Project](tx, "project", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project and everything under it.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.InTx(ctx, "delete project", func(tx *gorm.DB) error {
		p, err := lockByID[models.Project](tx, "project", id)
		if err != nil {
			return err
		}
		return r.cascade.DeleteProject(tx, p)
	})
}
