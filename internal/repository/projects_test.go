package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/database/dbtest"
	"github.com/arnold/taskboard-api/internal/models"
)

func TestProjectCreate(t *testing.T) {
	f := setup(t)
	p, err := f.repos.Projects.Create(f.ctx, f.owner.ID, models.CreateProjectRequest{
		Name:     "Launch",
		Settings: &models.ProjectSettings{DefaultColumns: []string{"Backlog"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "#2563eb", p.Color)
	assert.Equal(t, models.CurrentSettingsVersion, p.Settings.Data().Version)

	m, err := f.repos.Memberships.Get(f.ctx, p.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, m.Role)

	stored, err := f.repos.Projects.Get(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backlog"}, stored.Settings.Data().DefaultColumns)
	assert.Equal(t, models.TaskStatusTodo, stored.Settings.Data().DefaultTaskStatus)
}

func TestProjectCreateUnknownOwner(t *testing.T) {
	f := setup(t)
	_, err := f.repos.Projects.Create(f.ctx, uuid.New(), models.CreateProjectRequest{Name: "x"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	var n int64
	require.NoError(t, f.db.Model(&models.Project{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestProjectListForUserHidesArchived(t *testing.T) {
	f := setup(t)
	live := f.project(t)
	archived := f.project(t)
	_, err := f.repos.Projects.Archive(f.ctx, archived.ID, true)
	require.NoError(t, err)

	other := dbtest.User(t, f.db, "other")
	_, err = f.repos.Projects.Create(f.ctx, other.ID, models.CreateProjectRequest{Name: "theirs"})
	require.NoError(t, err)

	list, err := f.repos.Projects.ListForUser(f.ctx, f.owner.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)

	list, err = f.repos.Projects.ListForUser(f.ctx, f.owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestProjectArchiveKeepsChildrenAddressable(t *testing.T) {
	f := setup(t)
	p := f.project(t)
	b := f.board(t, p.ID, "To Do")

	got, err := f.repos.Projects.Archive(f.ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Archived)
	assert.NotNil(t, got.ArchivedAt)

	boards, err := f.repos.Boards.List(f.ctx, p.ID, false)
	require.NoError(t, err)
	assert.Empty(t, boards)

	boards, err = f.repos.Boards.List(f.ctx, p.ID, true)
	require.NoError(t, err)
	assert.Len(t, boards, 1)

	_, err = f.repos.Boards.Get(f.ctx, b.ID, true)
	require.NoError(t, err)
}

func TestProjectUpdate(t *testing.T) {
	f := setup(t)
	p := f.project(t)

	got, err := f.repos.Projects.Update(f.ctx, p.ID, models.UpdateProjectRequest{
		Name:     ptr("Relaunch"),
		Settings: &models.ProjectSettings{AllowMemberInvites: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", got.Name)
	assert.True(t, got.Settings.Data().AllowMemberInvites)

	_, err = f.repos.Projects.Update(f.ctx, uuid.New(), models.UpdateProjectRequest{})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProjectDeleteCascades(t *testing.T) {
	f := setup(t)
	p := f.project(t)
	b := f.board(t, p.ID, "To Do", "Done")
	cols := columnOrder(t, f.db, b.ID)
	f.tasks(t, cols[0], 3)

	require.NoError(t, f.repos.Projects.Delete(f.ctx, p.ID))

	for _, model := range []any{&models.Project{}, &models.Membership{}, &models.Board{}, &models.Column{}, &models.Task{}, &models.Activity{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}

	require.ErrorIs(t, f.repos.Projects.Delete(f.ctx, p.ID), apperr.ErrNotFound)
}
