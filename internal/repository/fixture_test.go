package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/actor"
	"github.com/arnold/taskboard-api/internal/database/dbtest"
	"github.com/arnold/taskboard-api/internal/logging"
	"github.com/arnold/taskboard-api/internal/models"
	"github.com/arnold/taskboard-api/internal/repository"
)

var defaultColumns = []string{"To Do", "In Progress", "Done"}

type fixture struct {
	db    *gorm.DB
	repos *repository.Set
	owner models.User
	ctx   context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.Store(t)
	f := &fixture{
		repos: repository.NewSet(store, logging.Discard(), defaultColumns),
		ctx:   context.Background(),
	}
	f.db = store.DB(f.ctx)
	f.owner = dbtest.User(t, f.db, "owner")
	f.ctx = actor.WithUser(f.ctx, f.owner.ID)
	return f
}

func (f *fixture) project(t *testing.T) *models.Project {
	t.Helper()
	p, err := f.repos.Projects.Create(f.ctx, f.owner.ID, models.CreateProjectRequest{Name: "Launch"})
	require.NoError(t, err)
	return p
}

func (f *fixture) board(t *testing.T, projectID uuid.UUID, columns ...string) *models.Board {
	t.Helper()
	b, err := f.repos.Boards.Create(f.ctx, projectID, f.owner.ID, models.CreateBoardRequest{Name: "Sprint", Columns: columns})
	require.NoError(t, err)
	return b
}

func (f *fixture) column(t *testing.T, boardID uuid.UUID, name string) *models.Column {
	t.Helper()
	c, err := f.repos.Columns.Create(f.ctx, boardID, models.CreateColumnRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) tasks(t *testing.T, columnID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		task, err := f.repos.Tasks.Create(f.ctx, columnID, f.owner.ID, models.CreateTaskRequest{Title: "task"})
		require.NoError(t, err)
		ids[i] = task.ID
	}
	return ids
}

// order returns the ids of a scope in position order and fails unless positions are 0..n-1.
func order(t *testing.T, db *gorm.DB, table, parent string, parentID uuid.UUID) []uuid.UUID {
	t.Helper()
	var rows []struct {
		ID       uuid.UUID
		Position int
	}
	require.NoError(t, db.Table(table).Select("id", "position").
		Where(parent+" = ?", parentID).Order("position").Scan(&rows).Error)
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		require.Equal(t, i, r.Position, "%s under %s: positions must be 0..n-1", table, parentID)
		ids[i] = r.ID
	}
	return ids
}

func taskOrder(t *testing.T, db *gorm.DB, columnID uuid.UUID) []uuid.UUID {
	return order(t, db, "tasks", "column_id", columnID)
}

func columnOrder(t *testing.T, db *gorm.DB, boardID uuid.UUID) []uuid.UUID {
	return order(t, db, "columns", "board_id", boardID)
}

func boardOrder(t *testing.T, db *gorm.DB, projectID uuid.UUID) []uuid.UUID {
	return order(t, db, "boards", "project_id", projectID)
}

func ptr[T any](v T) *T { return &v }
