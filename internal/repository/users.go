package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/models"
)

// UserRepository reads the users the identity service provisions.
type UserRepository struct {
	store *database.Store
}

func NewUserRepository(store *database.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := get[models.User](r.store.DB(ctx), "user", id)
	if err != nil {
		return nil, r.store.Fail("get user", err)
	}
	return u, nil
}

// SharesProject reports whether both users are members of at least one common project.
func (r *UserRepository) SharesProject(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == b {
		return true, nil
	}
	var n int64
	err := r.store.DB(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND project_id IN (?)", a,
			r.store.DB(ctx).Model(&models.Membership{}).Select("project_id").Where("user_id = ?", b)).
		Count(&n).Error
	if err != nil {
		return false, r.store.Fail("shared project", err)
	}
	return n > 0, nil
}
