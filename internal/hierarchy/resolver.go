// Package hierarchy walks parent references from a board, column or task up to its project.
package hierarchy

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/models"
)

// Path is the chain of ids from a project down to the resolved entity. Ids below the
// resolved entity's level are uuid.Nil.
type Path struct {
	ProjectID uuid.UUID
	BoardID   uuid.UUID
	ColumnID  uuid.UUID
	TaskID    uuid.UUID

	// Archived is set when the entity or any of its ancestors is archived.
	Archived bool
}

type Resolver struct{}

func New() *Resolver {
	return &Resolver{}
}

// Resolve looks up entity and every ancestor. A missing link is reported as NotFound naming
// the entity that could not be loaded, including a dangling parent reference.
func (r *Resolver) Resolve(tx *gorm.DB, entity models.EntityType, id uuid.UUID) (Path, error) {
	var p Path
	switch entity {
	case models.EntityTask:
		var task models.Task
		if err := load(tx, &task, "task", id, "id", "column_id", "archived"); err != nil {
			return p, err
		}
		p.TaskID = task.ID
		p.Archived = task.Archived
		id = task.ColumnID
		fallthrough
	case models.EntityColumn:
		var col models.Column
		if err := load(tx, &col, "column", id, "id", "board_id", "archived"); err != nil {
			return p, err
		}
		p.ColumnID = col.ID
		p.Archived = p.Archived || col.Archived
		id = col.BoardID
		fallthrough
	case models.EntityBoard:
		var board models.Board
		if err := load(tx, &board, "board", id, "id", "project_id", "archived"); err != nil {
			return p, err
		}
		p.BoardID = board.ID
		p.Archived = p.Archived || board.Archived
		id = board.ProjectID
		fallthrough
	case models.EntityProject:
		var project models.Project
		if err := load(tx, &project, "project", id, "id", "archived"); err != nil {
			return p, err
		}
		p.ProjectID = project.ID
		p.Archived = p.Archived || project.Archived
		return p, nil
	}
	return p, apperr.Invalid("unknown entity type %q", entity)
}

// ProjectID returns the project that owns entity.
func (r *Resolver) ProjectID(tx *gorm.DB, entity models.EntityType, id uuid.UUID) (uuid.UUID, error) {
	p, err := r.Resolve(tx, entity, id)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ProjectID, nil
}

func load(tx *gorm.DB, dest any, entity string, id uuid.UUID, fields ...string) error {
	err := tx.Select(fields).Take(dest, "id = ?", id).Error
	return apperr.Translate(err, entity, id)
}
