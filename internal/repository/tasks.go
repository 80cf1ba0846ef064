package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/cascade"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/hierarchy"
	"github.com/arnold/taskboard-api/internal/models"
	"github.com/arnold/taskboard-api/internal/position"
)

// TaskRepository keeps tasks ordered within their column. Task operations that touch
// positions lock the column row; a move locks both columns in id order.
type TaskRepository struct {
	store     *database.Store
	alloc     *position.Allocator
	cascade   *cascade.Manager
	hierarchy *hierarchy.Resolver
}

func NewTaskRepository(store *database.Store, alloc *position.Allocator, c *cascade.Manager, h *hierarchy.Resolver) *TaskRepository {
	return &TaskRepository{store: store, alloc: alloc, cascade: c, hierarchy: h}
}

// Create adds a task reported by reporterID to the column, appended unless req.Position is
// set. A column with a task limit rejects the task once full.
func (r *TaskRepository) Create(ctx context.Context, columnID, reporterID uuid.UUID, req models.CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		AssigneeID:  req.AssigneeID,
		ReporterID:  reporterID,
		DueDate:     req.DueDate,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	err := r.store.InTx(ctx, "create task", func(tx *gorm.DB) error {
		col, err := lockByID[models.Column](tx, "column", columnID)
		if err != nil {
			return err
		}
		scope := position.Tasks(columnID)
		n, err := r.alloc.Count(tx, scope)
		if err != nil {
			return err
		}
		if full(col, n) {
			return apperr.LimitReached("column %s holds its limit of %d tasks", col.ID, *col.TaskLimit)
		}
		if err := checkAssignee(tx, task.AssigneeID); err != nil {
			return err
		}

		project, err := r.project(tx, columnID)
		if err != nil {
			return err
		}
		if task.Status == "" {
			task.Status = project.Settings.Data().Normalized().DefaultTaskStatus
		}

		if req.Position == nil {
			task.Position = n
		} else if task.Position, err = r.alloc.InsertAt(tx, scope, *req.Position); err != nil {
			return err
		}
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return r.cascade.Record(tx, project.ID, models.ActionTaskCreated, models.EntityTask, task.ID,
			map[string]any{"title": task.Title, "column": columnID.String()})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := get[models.Task](r.store.DB(ctx), "task", id)
	if err != nil {
		return nil, r.store.Fail("get task", err)
	}
	return task, nil
}

// List returns the column's tasks in order. Archived tasks, and all tasks below an archived
// column, board or project, are left out unless includeArchived is set.
func (r *TaskRepository) List(ctx context.Context, columnID uuid.UUID, includeArchived bool) ([]models.Task, error) {
	db := r.store.DB(ctx)
	q := db.Where("column_id = ?", columnID)
	if !includeArchived {
		path, err := r.hierarchy.Resolve(db, models.EntityColumn, columnID)
		if err != nil {
			return nil, r.store.Fail("list tasks", err)
		}
		if path.Archived {
			return []models.Task{}, nil
		}
		q = q.Where("archived = ?", false)
	}

	var tasks []models.Task
	if err := q.Order("position ASC").Find(&tasks).Error; err != nil {
		return nil, r.store.Fail("list tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdateTaskRequest) (*models.Task, error) {
	var task *models.Task
	err := r.store.InTx(ctx, "update task", func(tx *gorm.DB) error {
		var err error
		if task, err = lockByID[models.Task](tx, "task", id); err != nil {
			return err
		}
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Status != nil {
			task.Status = models.TaskStatus(*req.Status)
		}
		if req.Priority != nil {
			task.Priority = models.TaskPriority(*req.Priority)
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		switch {
		case req.ClearAssignee:
			task.AssigneeID = nil
		case req.AssigneeID != nil:
			if err := checkAssignee(tx, req.AssigneeID); err != nil {
				return err
			}
			task.AssigneeID = req.AssigneeID
		}
		return tx.Model(task).
			Select("title", "description", "status", "priority", "due_date", "assignee_id").
			Updates(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdatePosition moves the task to index within its column; index is clamped to the valid range.
func (r *TaskRepository) UpdatePosition(ctx context.Context, id uuid.UUID, index int) (*models.Task, error) {
	var task *models.Task
	err := r.store.InTx(ctx, "move task within column", func(tx *gorm.DB) error {
		var err error
		if task, _, err = r.lock(tx, id); err != nil {
			return err
		}
		task.Position, err = r.alloc.MoveWithin(tx, position.Tasks(task.ColumnID), task.ID, task.Position, index)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Reorder assigns positions to the column's tasks in the order of ids, which must name every
// task of the column exactly once.
func (r *TaskRepository) Reorder(ctx context.Context, columnID uuid.UUID, ids []uuid.UUID) error {
	return r.store.InTx(ctx, "reorder tasks", func(tx *gorm.DB) error {
		if _, err := lockByID[models.Column](tx, "column", columnID); err != nil {
			return err
		}
		return r.alloc.Reorder(tx, position.Tasks(columnID), ids)
	})
}

// Move puts the task into req.ColumnID at req.Position. The target column may sit on any
// board of the task's project. Moving within the same column behaves like UpdatePosition.
func (r *TaskRepository) Move(ctx context.Context, id uuid.UUID, req models.MoveTaskRequest) (*models.Task, error) {
	var task *models.Task
	err := r.store.InTx(ctx, "move task", func(tx *gorm.DB) error {
		var (
			target *models.Column
			err    error
		)
		if task, target, err = r.lockForMove(tx, id, req.ColumnID); err != nil {
			return err
		}

		from := position.Tasks(task.ColumnID)
		to := position.Tasks(target.ID)
		var projectID uuid.UUID
		if task.ColumnID != target.ID {
			src, err := r.hierarchy.Resolve(tx, models.EntityColumn, task.ColumnID)
			if err != nil {
				return err
			}
			dst, err := r.hierarchy.Resolve(tx, models.EntityColumn, target.ID)
			if err != nil {
				return err
			}
			if src.ProjectID != dst.ProjectID {
				return apperr.CrossParent("column %s belongs to another project", target.ID)
			}
			projectID = src.ProjectID

			n, err := r.alloc.Count(tx, to)
			if err != nil {
				return err
			}
			if full(target, n) {
				return apperr.LimitReached("column %s holds its limit of %d tasks", target.ID, *target.TaskLimit)
			}
		} else if projectID, err = r.hierarchy.ProjectID(tx, models.EntityColumn, target.ID); err != nil {
			return err
		}

		fromColumn := task.ColumnID
		task.Position, err = r.alloc.MoveBetween(tx, task.ID, from, task.Position, to, req.Position)
		if err != nil {
			return err
		}
		task.ColumnID = target.ID
		return r.cascade.Record(tx, projectID, models.ActionTaskMoved, models.EntityTask, task.ID, map[string]any{
			"from":     fromColumn.String(),
			"to":       target.ID.String(),
			"position": task.Position,
		})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) Archive(ctx context.Context, id uuid.UUID, archived bool) (*models.Task, error) {
	var task *models.Task
	err := r.store.InTx(ctx, "archive task", func(tx *gorm.DB) error {
		if err := r.cascade.Archive(tx, models.EntityTask, id, archived); err != nil {
			return err
		}
		var err error
		if task, err = get[models.Task](tx, "task", id); err != nil {
			return err
		}
		projectID, err := r.hierarchy.ProjectID(tx, models.EntityTask, id)
		if err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, archiveAction(archived), models.EntityTask, id, nil)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task and closes the gap it leaves in its column.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.InTx(ctx, "delete task", func(tx *gorm.DB) error {
		task, _, err := r.lock(tx, id)
		if err != nil {
			return err
		}
		projectID, err := r.hierarchy.ProjectID(tx, models.EntityColumn, task.ColumnID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Task{}, "id = ?", task.ID).Error; err != nil {
			return err
		}
		if err := r.alloc.Remove(tx, position.Tasks(task.ColumnID), task.Position); err != nil {
			return err
		}
		return r.cascade.Record(tx, projectID, models.ActionTaskDeleted, models.EntityTask, id,
			map[string]any{"title": task.Title})
	})
}

func (r *TaskRepository) lock(tx *gorm.DB, id uuid.UUID) (*models.Task, *models.Column, error) {
	return lockParent[models.Task, models.Column](tx, "task", "column", id,
		func(t *models.Task) uuid.UUID { return t.ColumnID })
}

// lockForMove locks the task's current column and the target column in id order, then
// re-reads the task. It retries when the task changed column before the locks were held.
func (r *TaskRepository) lockForMove(tx *gorm.DB, id, targetID uuid.UUID) (*models.Task, *models.Column, error) {
	task, err := get[models.Task](tx, "task", id)
	if err != nil {
		return nil, nil, err
	}
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ids := []uuid.UUID{task.ColumnID}
		if targetID != task.ColumnID {
			ids = append(ids, targetID)
		}
		var cols []models.Column
		if err := database.LockRows(tx, &cols, ids); err != nil {
			return nil, nil, err
		}
		var target *models.Column
		for i := range cols {
			if cols[i].ID == targetID {
				target = &cols[i]
			}
		}
		if target == nil {
			return nil, nil, apperr.NotFound("column", targetID)
		}

		fresh, err := get[models.Task](tx, "task", id)
		if err != nil {
			return nil, nil, err
		}
		if fresh.ColumnID == task.ColumnID {
			return fresh, target, nil
		}
		task = fresh
	}
	return nil, nil, apperr.Conflict("task %s keeps moving, retry", id)
}

func (r *TaskRepository) project(tx *gorm.DB, columnID uuid.UUID) (*models.Project, error) {
	projectID, err := r.hierarchy.ProjectID(tx, models.EntityColumn, columnID)
	if err != nil {
		return nil, err
	}
	return get[models.Project](tx, "project", projectID)
}

func full(col *models.Column, tasks int) bool {
	return col.TaskLimit != nil && tasks >= *col.TaskLimit
}

func checkAssignee(tx *gorm.DB, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	_, err := get[models.User](tx, "user", *assigneeID)
	return err
}
