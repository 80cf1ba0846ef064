package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/cascade"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/hierarchy"
	"github.com/arnold/taskboard-api/internal/models"
	"github.com/arnold/taskboard-api/internal/position"
)

// ColumnRepository keeps columns ordered within their board. Column operations that touch
// positions lock the board row.
type ColumnRepository struct {
	store     *database.Store
	alloc     *position.Allocator
	cascade   *cascade.Manager
	hierarchy *hierarchy.Resolver
}

func NewColumnRepository(store *database.Store, alloc *position.Allocator, c *cascade.Manager, h *hierarchy.Resolver) *ColumnRepository {
	return &ColumnRepository{store: store, alloc: alloc, cascade: c, hierarchy: h}
}

func (r *ColumnRepository) Create(ctx context.Context, boardID uuid.UUID, req models.CreateColumnRequest) (*models.Column, error) {
	col := &models.Column{BoardID: boardID, Name: req.Name, WipLimit: req.WipLimit, TaskLimit: req.TaskLimit}
	err := r.store.InTx(ctx, "create column", func(tx *gorm.DB) error {
		board, err := lockByID[models.Board](tx, "board", boardID)
		if err != nil {
			return err
		}

		scope := position.Columns(boardID)
		if req.Position == nil {
			col.Position, err = r.alloc.Append(tx, scope)
		} else {
			col.Position, err = r.alloc.InsertAt(tx, scope, *req.Position)
		}
		if err != nil {
			return err
		}
		if err := tx.Create(col).Error; err != nil {
			return err
		}
		return r.cascade.Record(tx, board.ProjectID, models.ActionColumnCreated, models.EntityColumn, col.ID,
			map[string]any{"name": col.Name, "board": boardID.String()})
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (r *ColumnRepository) Get(ctx context.Context, id uuid.UUID) (*models.Column, error) {
	col, err := get[models.Column](r.store.DB(ctx), "column", id)
	if err != nil {
		return nil, r.store.Fail("get column", err)
	}
	return col, nil
}

// List returns the board's columns in order. Archived columns, and all columns of a board
// that is archived or sits in an archived project, are left out unless includeArchived is set.
func (r *ColumnRepository) List(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]models.Column, error) {
	db := r.store.DB(ctx)
	q := db.Where("board_id = ?", boardID)
	if !includeArchived {
		path, err := r.hierarchy.Resolve(db, models.EntityBoard, boardID)
		if err != nil {
			return nil, r.store.Fail("list columns", err)
		}
		if path.Archived {
			return []models.Column{}, nil
		}
		q = q.Where("archived = ?", false)
	}

	var cols []models.Column
	if err := q.Order("position ASC").Find(&cols).Error; err != nil {
		return nil, r.store.Fail("list columns", err)
	}
	return cols, nil
}

func (r *ColumnRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdateColumnRequest) (*models.Column, error) {
	var col *models.Column
	err := r.store.InTx(ctx, "update column", func(tx *gorm.DB) error {
		var err error
		if col, err = lockByID[models.Column](tx, "column", id); err != nil {
			return err
		}
		if req.Name != nil {
			col.Name = *req.Name
		}
		switch {
		case req.ClearWipLimit:
			col.WipLimit = nil
		case req.WipLimit != nil:
			col.WipLimit = req.WipLimit
		}
		switch {
		case req.ClearTaskLimit:
			col.TaskLimit = nil
		case req.TaskLimit != nil:
			col.TaskLimit = req.TaskLimit
		}
		return tx.Model(col).Select("name", "wip_limit", "task_limit").Updates(col).Error
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// UpdatePosition moves the column to index within its board; index is clamped to the valid range.
func (r *ColumnRepository) UpdatePosition(ctx context.Context, id uuid.UUID, index int) (*models.Column, error) {
	var col *models.Column
	err := r.store.InTx(ctx, "move column", func(tx *gorm.DB) error {
		var err error
		if col, _, err = r.lock(tx, id); err != nil {
			return err
		}
		col.Position, err = r.alloc.MoveWithin(tx, position.Columns(col.BoardID), col.ID, col.Position, index)
		return err
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// Reorder assigns positions to the board's columns in the order of ids, which must name every
// column of the board exactly once.
func (r *ColumnRepository) Reorder(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error {
	return r.store.InTx(ctx, "reorder columns", func(tx *gorm.DB) error {
		board, err := lockByID[models.Board](tx, "board", boardID)
		if err != nil {
			return err
		}
		if err := r.alloc.Reorder(tx, position.Columns(boardID), ids); err != nil {
			return err
		}
		return r.cascade.Record(tx, board.ProjectID, models.ActionReordered, models.EntityBoard, boardID,
			map[string]any{"scope": "columns"})
	})
}

func (r *ColumnRepository) Archive(ctx context.Context, id uuid.UUID, archived bool) (*models.Column, error) {
	var col *models.Column
	err := r.store.InTx(ctx, "archive column", func(tx *gorm.DB) error {
		if err := r.cascade.Archive(tx, models.EntityColumn, id, archived); err != nil {
			return err
		}
		var err error
		if col, err = get[models.Column](tx, "column", id); err != nil {
			return err
		}
		projectID, err := r.hierarchy.ProjectID(tx, models.EntityColumn, id)
		if err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, archiveAction(archived), models.EntityColumn, id, nil)
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// Delete removes the column. A column that still holds tasks needs moveTasksTo, a sibling
// column on the same board that receives them; otherwise ColumnNotEmpty is returned and
// nothing changes.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID, moveTasksTo *uuid.UUID) error {
	return r.store.InTx(ctx, "delete column", func(tx *gorm.DB) error {
		col, board, err := r.lock(tx, id)
		if err != nil {
			return err
		}
		if err := r.cascade.DeleteColumn(tx, col, moveTasksTo); err != nil {
			return err
		}
		meta := map[string]any{"name": col.Name}
		if moveTasksTo != nil {
			meta["movedTasksTo"] = moveTasksTo.String()
		}
		return r.cascade.Record(tx, board.ProjectID, models.ActionColumnDeleted, models.EntityColumn, id, meta)
	})
}

func (r *ColumnRepository) lock(tx *gorm.DB, id uuid.UUID) (*models.Column, *models.Board, error) {
	return lockParent[models.Column, models.Board](tx, "column", "board", id,
		func(c *models.Column) uuid.UUID { return c.BoardID })
}
