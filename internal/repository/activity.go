package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/models"
)

type ActivityRepository struct {
	store *database.Store
}

func NewActivityRepository(store *database.Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// List returns one page of a project's activity, newest first, and the total entry count.
func (r *ActivityRepository) List(ctx context.Context, projectID uuid.UUID, page, limit int) ([]models.Activity, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	db := r.store.DB(ctx)
	var total int64
	if err := db.Model(&models.Activity{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, r.store.Fail("list activity", err)
	}

	var activities []models.Activity
	err := db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, 0, r.store.Fail("list activity", err)
	}
	return activities, total, nil
}
