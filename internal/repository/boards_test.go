package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/models"
)

func TestBoardCreateAppendsAndInserts(t *testing.T) {
	f := setup(t)
	p := f.project(t)

	a := f.board(t, p.ID)
	b := f.board(t, p.ID)
	assert.Equal(t, 0, a.Position)
	assert.Equal(t, 1, b.Position)

	c, err := f.repos.Boards.Create(f.ctx, p.ID, f.owner.ID, models.CreateBoardRequest{Name: "first", Position: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Position)
	assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, boardOrder(t, f.db, p.ID))
}

func TestBoardCreateTemplate(t *testing.T) {
	f := setup(t)
	p := f.project(t)

	b, err := f.repos.Boards.Create(f.ctx, p.ID, f.owner.ID, models.CreateBoardRequest{Name: "Sprint", Template: true})
	require.NoError(t, err)
	require.Len(t, b.Columns, 3)

	cols, err := f.repos.Columns.List(f.ctx, b.ID, false)
	require.NoError(t, err)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, defaultColumns, names)
}

func TestBoardCreateTemplateFromProjectSettings(t *testing.T) {
	f := setup(t)
	p, err := f.repos.Projects.Create(f.ctx, f.owner.ID, models.CreateProjectRequest{
		Name:     "Ops",
		Settings: &models.ProjectSettings{DefaultColumns: []string{"Inbox", "Doing"}},
	})
	require.NoError(t, err)

	b, err := f.repos.Boards.Create(f.ctx, p.ID, f.owner.ID, models.CreateBoardRequest{Name: "Sprint", Template: true})
	require.NoError(t, err)
	require.Len(t, b.Columns, 2)
	assert.Equal(t, "Inbox", b.Columns[0].Name)
}

func TestBoardCreateUnknownProject(t *testing.T) {
	f := setup(t)
	_, err := f.repos.Boards.Create(f.ctx, uuid.New(), f.owner.ID, models.CreateBoardRequest{Name: "x", Template: true})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	var n int64
	require.NoError(t, f.db.Model(&models.Column{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBoardUpdatePositionAndReorder(t *testing.T) {
	f := setup(t)
	p := f.project(t)
	a, b, c := f.board(t, p.ID), f.board(t, p.ID), f.board(t, p.ID)

	moved, err := f.repos.Boards.UpdatePosition(f.ctx, a.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Position)
	assert.Equal(t, []uuid.UUID{b.ID, c.ID, a.ID}, boardOrder(t, f.db, p.ID))

	require.NoError(t, f.repos.Boards.Reorder(f.ctx, p.ID, []uuid.UUID{c.ID, a.ID, b.ID}))
	assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, boardOrder(t, f.db, p.ID))

	err = f.repos.Boards.Reorder(f.ctx, p.ID, []uuid.UUID{c.ID, a.ID})
	require.ErrorIs(t, err, apperr.ErrReorderMismatch)
	assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, boardOrder(t, f.db, p.ID))
}

func TestBoardUpdateAndGet(t *testing.T) {
	f := setup(t)
	p := f.project(t)
	b := f.board(t, p.ID, "To Do")

	got, err := f.repos.Boards.Update(f.ctx, b.ID, models.UpdateBoardRequest{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	cols := columnOrder(t, f.db, b.ID)
	f.tasks(t, cols[0], 2)

	full, err := f.repos.Boards.Get(f.ctx, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", full.Name)
	require.Len(t, full.Columns, 1)
	assert.Len(t, full.Columns[0].Tasks, 2)

	bare, err := f.repos.Boards.Get(f.ctx, b.ID, false)
	require.NoError(t, err)
	assert.Empty(t, bare.Columns)

	_, err = f.repos.Boards.Get(f.ctx, uuid.New(), false)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBoardArchiveHidesFromListing(t *testing.T) {
	f := setup(t)
	p := f.project(t)
	a := f.board(t, p.ID, "To Do")
	b := f.board(t, p.ID)

	archived, err := f.repos.Boards.Archive(f.ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	assert.Equal(t, 0, archived.Position)

	list, err := f.repos.Boards.List(f.ctx, p.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	cols, err := f.repos.Columns.List(f.ctx, a.ID, false)
	require.NoError(t, err)
	assert.Empty(t, cols, "children of an archived board are hidden")

	cols, err = f.repos.Columns.List(f.ctx, a.ID, true)
	require.NoError(t, err)
	assert.Len(t, cols, 1)
}

// Deleting a board hard-deletes its columns and their tasks. Unlike column deletion there is
// no relocation target to offer.
func TestBoardDeleteCascadesToChildren(t *testing.T) {
	f := setup(t)
	p := f.project(t)
	a := f.board(t, p.ID, "To Do", "Done")
	b := f.board(t, p.ID, "To Do")
	aCols := columnOrder(t, f.db, a.ID)
	f.tasks(t, aCols[0], 2)
	f.tasks(t, aCols[1], 1)
	bCols := columnOrder(t, f.db, b.ID)
	kept := f.tasks(t, bCols[0], 1)

	require.NoError(t, f.repos.Boards.Delete(f.ctx, a.ID))

	var cols, tasks int64
	require.NoError(t, f.db.Model(&models.Column{}).Where("board_id = ?", a.ID).Count(&cols).Error)
	require.NoError(t, f.db.Model(&models.Task{}).Where("column_id IN ?", aCols).Count(&tasks).Error)
	assert.Zero(t, cols)
	assert.Zero(t, tasks)

	assert.Equal(t, []uuid.UUID{b.ID}, boardOrder(t, f.db, p.ID))
	assert.Equal(t, kept, taskOrder(t, f.db, bCols[0]))

	require.ErrorIs(t, f.repos.Boards.Delete(f.ctx, a.ID), apperr.ErrNotFound)
}
