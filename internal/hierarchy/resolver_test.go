package hierarchy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/database/dbtest"
	"github.com/arnold/taskboard-api/internal/hierarchy"
	"github.com/arnold/taskboard-api/internal/models"
)

type tree struct {
	project models.Project
	board   models.Board
	column  models.Column
	task    models.Task
}

func seed(t *testing.T, db *gorm.DB) tree {
	t.Helper()
	var tr tree
	tr.project = models.Project{Name: "P", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&tr.project).Error)
	tr.board = models.Board{ProjectID: tr.project.ID, CreatorID: tr.project.OwnerID, Name: "B"}
	require.NoError(t, db.Create(&tr.board).Error)
	tr.column = models.Column{BoardID: tr.board.ID, Name: "C"}
	require.NoError(t, db.Create(&tr.column).Error)
	tr.task = models.Task{ColumnID: tr.column.ID, Title: "T", ReporterID: tr.project.OwnerID}
	require.NoError(t, db.Create(&tr.task).Error)
	return tr
}

func TestResolveWalksToProject(t *testing.T) {
	db := dbtest.Open(t)
	tr := seed(t, db)
	r := hierarchy.New()

	p, err := r.Resolve(db, models.EntityTask, tr.task.ID)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.Path{
		ProjectID: tr.project.ID,
		BoardID:   tr.board.ID,
		ColumnID:  tr.column.ID,
		TaskID:    tr.task.ID,
	}, p)

	for entity, id := range map[models.EntityType]uuid.UUID{
		models.EntityProject: tr.project.ID,
		models.EntityBoard:   tr.board.ID,
		models.EntityColumn:  tr.column.ID,
		models.EntityTask:    tr.task.ID,
	} {
		got, err := r.ProjectID(db, entity, id)
		require.NoError(t, err, entity)
		assert.Equal(t, tr.project.ID, got, entity)
	}
}

func TestResolveColumnLeavesTaskEmpty(t *testing.T) {
	db := dbtest.Open(t)
	tr := seed(t, db)

	p, err := hierarchy.New().Resolve(db, models.EntityColumn, tr.column.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.board.ID, p.BoardID)
	assert.Equal(t, uuid.Nil, p.TaskID)
}

func TestResolveReportsArchivedAncestor(t *testing.T) {
	db := dbtest.Open(t)
	tr := seed(t, db)
	require.NoError(t, db.Model(&tr.board).Update("archived", true).Error)

	p, err := hierarchy.New().Resolve(db, models.EntityTask, tr.task.ID)
	require.NoError(t, err)
	assert.True(t, p.Archived)

	p, err = hierarchy.New().Resolve(db, models.EntityProject, tr.project.ID)
	require.NoError(t, err)
	assert.False(t, p.Archived)
}

func TestResolveMissingEntity(t *testing.T) {
	db := dbtest.Open(t)
	_, err := hierarchy.New().Resolve(db, models.EntityTask, uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "task")
}

func TestResolveDanglingParent(t *testing.T) {
	db := dbtest.Open(t)
	tr := seed(t, db)
	require.NoError(t, db.Delete(&models.Board{}, "id = ?", tr.board.ID).Error)

	_, err := hierarchy.New().Resolve(db, models.EntityTask, tr.task.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "board "+tr.board.ID.String())
}

func TestResolveUnknownEntityType(t *testing.T) {
	db := dbtest.Open(t)
	_, err := hierarchy.New().Resolve(db, models.EntityType("epic"), uuid.New())
	require.ErrorIs(t, err, apperr.ErrInvalid)
}
