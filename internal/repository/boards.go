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

// BoardRepository keeps boards ordered within their project. Board operations that touch
// positions lock the project row.
type BoardRepository struct {
	store          *database.Store
	alloc          *position.Allocator
	cascade        *cascade.Manager
	hierarchy      *hierarchy.Resolver
	defaultColumns []string
}

func NewBoardRepository(store *database.Store, alloc *position.Allocator, c *cascade.Manager, h *hierarchy.Resolver, defaultColumns []string) *BoardRepository {
	return &BoardRepository{store: store, alloc: alloc, cascade: c, hierarchy: h, defaultColumns: defaultColumns}
}

// Create adds a board to the project, appended unless req.Position is set. With req.Template
// or explicit req.Columns the board gets starter columns in the same transaction; template
// names come from the project settings, falling back to the configured defaults.
func (r *BoardRepository) Create(ctx context.Context, projectID, creatorID uuid.UUID, req models.CreateBoardRequest) (*models.Board, error) {
	board := &models.Board{ProjectID: projectID, CreatorID: creatorID, Name: req.Name}
	err := r.store.InTx(ctx, "create board", func(tx *gorm.DB) error {
		project, err := lockByID[models.Project](tx, "project", projectID)
		if err != nil {
			return err
		}

		scope := position.Boards(projectID)
		if req.Position == nil {
			board.Position, err = r.alloc.Append(tx, scope)
		} else {
			board.Position, err = r.alloc.InsertAt(tx, scope, *req.Position)
		}
		if err != nil {
			return err
		}
		if err := tx.Create(board).Error; err != nil {
			return err
		}

		names := req.Columns
		if len(names) == 0 && req.Template {
			names = project.Settings.Data().DefaultColumns
			if len(names) == 0 {
				names = r.defaultColumns
			}
		}
		if board.Columns, err = r.cascade.SeedColumns(tx, board.ID, names); err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, models.ActionBoardCreated, models.EntityBoard, board.ID,
			map[string]any{"name": board.Name})
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Get loads a board. withChildren also loads its unarchived columns and their unarchived
// tasks, in position order.
func (r *BoardRepository) Get(ctx context.Context, id uuid.UUID, withChildren bool) (*models.Board, error) {
	q := r.store.DB(ctx)
	if withChildren {
		q = q.Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Where("archived = ?", false).Order("position ASC")
		}).Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Where("archived = ?", false).Order("position ASC")
		})
	}
	board, err := get[models.Board](q, "board", id)
	if err != nil {
		return nil, r.store.Fail("get board", err)
	}
	return board, nil
}

// List returns the project's boards in order. Archived boards, and every board of an
// archived project, are left out unless includeArchived is set.
func (r *BoardRepository) List(ctx context.Context, projectID uuid.UUID, includeArchived bool) ([]models.Board, error) {
	db := r.store.DB(ctx)
	q := db.Where("project_id = ?", projectID)
	if !includeArchived {
		path, err := r.hierarchy.Resolve(db, models.EntityProject, projectID)
		if err != nil {
			return nil, r.store.Fail("list boards", err)
		}
		if path.Archived {
			return []models.Board{}, nil
		}
		q = q.Where("archived = ?", false)
	}

	var boards []models.Board
	if err := q.Order("position ASC").Find(&boards).Error; err != nil {
		return nil, r.store.Fail("list boards", err)
	}
	return boards, nil
}

func (r *BoardRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdateBoardRequest) (*models.Board, error) {
	var board *models.Board
	err := r.store.InTx(ctx, "update board", func(tx *gorm.DB) error {
		var err error
		if board, err = lockByID[models.Board](tx, "board", id); err != nil {
			return err
		}
		if req.Name == nil {
			return nil
		}
		board.Name = *req.Name
		return tx.Model(board).Update("name", board.Name).Error
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// UpdatePosition moves the board to index within its project; index is clamped to the
// valid range.
func (r *BoardRepository) UpdatePosition(ctx context.Context, id uuid.UUID, index int) (*models.Board, error) {
	var board *models.Board
	err := r.store.InTx(ctx, "move board", func(tx *gorm.DB) error {
		var err error
		if board, _, err = r.lock(tx, id); err != nil {
			return err
		}
		board.Position, err = r.alloc.MoveWithin(tx, position.Boards(board.ProjectID), board.ID, board.Position, index)
		return err
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Reorder assigns positions to the project's boards in the order of ids, which must name
// every board of the project exactly once.
func (r *BoardRepository) Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	return r.store.InTx(ctx, "reorder boards", func(tx *gorm.DB) error {
		if _, err := lockByID[models.Project](tx, "project", projectID); err != nil {
			return err
		}
		if err := r.alloc.Reorder(tx, position.Boards(projectID), ids); err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, models.ActionReordered, models.EntityProject, projectID,
			map[string]any{"scope": "boards"})
	})
}

func (r *BoardRepository) Archive(ctx context.Context, id uuid.UUID, archived bool) (*models.Board, error) {
	var board *models.Board
	err := r.store.InTx(ctx, "archive board", func(tx *gorm.DB) error {
		if err := r.cascade.Archive(tx, models.EntityBoard, id, archived); err != nil {
			return err
		}
		var err error
		if board, err = get[models.Board](tx, "board", id); err != nil {
			return err
		}
		return r.cascade.Record(tx, board.ProjectID, archiveAction(archived), models.EntityBoard, id, nil)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes the board with all of its columns and tasks.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.InTx(ctx, "delete board", func(tx *gorm.DB) error {
		board, _, err := r.lock(tx, id)
		if err != nil {
			return err
		}
		if err := r.cascade.DeleteBoard(tx, board); err != nil {
			return err
		}
		return r.cascade.Record(tx, board.ProjectID, models.ActionBoardDeleted, models.EntityBoard, id,
			map[string]any{"name": board.Name})
	})
}

func (r *BoardRepository) lock(tx *gorm.DB, id uuid.UUID) (*models.Board, *models.Project, error) {
	return lockParent[models.Board, models.Project](tx, "board", "project", id,
		func(b *models.Board) uuid.UUID { return b.ProjectID })
}

func archiveAction(archived bool) string {
	if archived {
		return models.ActionArchived
	}
	return models.ActionUnarchived
}
