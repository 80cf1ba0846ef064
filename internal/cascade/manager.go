// Package cascade applies the multi-row side effects of structural changes. Every method runs
// inside a transaction owned by the caller; an error from any step is returned as is and the
// caller's transaction rolls back everything written so far.
package cascade

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/actor"
	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/models"
	"github.com/arnold/taskboard-api/internal/position"
)

type Manager struct {
	alloc *position.Allocator
	log   *logrus.Logger
}

func New(alloc *position.Allocator, log *logrus.Logger) *Manager {
	return &Manager{alloc: alloc, log: log}
}

// CreateProject inserts p and the owner membership of p.OwnerID.
func (m *Manager) CreateProject(tx *gorm.DB, p *models.Project) error {
	if err := tx.Create(p).Error; err != nil {
		return err
	}
	owner := models.Membership{ProjectID: p.ID, UserID: p.OwnerID, Role: models.RoleOwner}
	if err := tx.Create(&owner).Error; err != nil {
		return apperr.Translate(err, "membership", p.OwnerID)
	}
	return m.Record(tx, p.ID, models.ActionProjectCreated, models.EntityProject, p.ID, nil)
}

// SeedColumns appends one column per name to a board.
func (m *Manager) SeedColumns(tx *gorm.DB, boardID uuid.UUID, names []string) ([]models.Column, error) {
	start, err := m.alloc.Append(tx, position.Columns(boardID))
	if err != nil {
		return nil, err
	}
	cols := make([]models.Column, len(names))
	for i, name := range names {
		cols[i] = models.Column{BoardID: boardID, Name: name, Position: start + i}
	}
	if len(cols) == 0 {
		return cols, nil
	}
	if err := tx.Create(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}

// DeleteColumn removes col, whose board row the caller has locked. A column that still holds
// tasks is only deleted when moveTasksTo names another column of the same board; its tasks are
// appended there in their current order. Without a target the column is left untouched and
// ColumnNotEmpty is returned.
func (m *Manager) DeleteColumn(tx *gorm.DB, col *models.Column, moveTasksTo *uuid.UUID) error {
	if moveTasksTo != nil {
		if *moveTasksTo == col.ID {
			return apperr.Invalid("a column cannot take its own tasks")
		}
		var locked []models.Column
		if err := database.LockRows(tx, &locked, []uuid.UUID{col.ID, *moveTasksTo}); err != nil {
			return err
		}
		var target *models.Column
		for i := range locked {
			if locked[i].ID == *moveTasksTo {
				target = &locked[i]
			}
		}
		if target == nil {
			return apperr.NotFound("column", *moveTasksTo)
		}
		if target.BoardID != col.BoardID {
			return apperr.CrossParent("target column %s is not on board %s", target.ID, col.BoardID)
		}
	} else if err := database.LockRow(tx, &models.Column{}, col.ID); err != nil {
		return apperr.Translate(err, "column", col.ID)
	}

	tasks, err := m.alloc.Count(tx, position.Tasks(col.ID))
	if err != nil {
		return err
	}
	moved := 0
	if tasks > 0 {
		if moveTasksTo == nil {
			return apperr.ColumnNotEmpty(col.ID, int64(tasks))
		}
		if moved, err = m.alloc.Relocate(tx, position.Tasks(col.ID), position.Tasks(*moveTasksTo)); err != nil {
			return err
		}
	}

	if err := tx.Delete(&models.Column{}, "id = ?", col.ID).Error; err != nil {
		return err
	}
	if err := m.alloc.Remove(tx, position.Columns(col.BoardID), col.Position); err != nil {
		return err
	}

	m.log.WithFields(logrus.Fields{
		"column":      col.ID,
		"board":       col.BoardID,
		"tasks_moved": moved,
	}).Debug("column deleted")
	return nil
}

// DeleteBoard removes board with all of its columns and their tasks, then closes the gap in
// the project's board order. The caller holds the project row lock; the board and its
// columns are locked here before anything is deleted. Tasks are not relocated:
// a board has no sibling to take them.
func (m *Manager) DeleteBoard(tx *gorm.DB, board *models.Board) error {
	tasks, err := m.deleteBoards(tx, []uuid.UUID{board.ID})
	if err != nil {
		return err
	}
	if err := m.alloc.Remove(tx, position.Boards(board.ProjectID), board.Position); err != nil {
		return err
	}

	m.log.WithFields(logrus.Fields{
		"board":         board.ID,
		"project":       board.ProjectID,
		"tasks_deleted": tasks,
	}).Debug("board deleted")
	return nil
}

// DeleteProject removes the project, its memberships, invites and activity, and every board
// under it.
func (m *Manager) DeleteProject(tx *gorm.DB, project *models.Project) error {
	var boardIDs []uuid.UUID
	if err := tx.Model(&models.Board{}).Where("project_id = ?", project.ID).Pluck("id", &boardIDs).Error; err != nil {
		return err
	}
	tasks, err := m.deleteBoards(tx, boardIDs)
	if err != nil {
		return err
	}

	for _, model := range []any{&models.Membership{}, &models.ProjectInvite{}, &models.Activity{}} {
		if err := tx.Where("project_id = ?", project.ID).Delete(model).Error; err != nil {
			return err
		}
	}
	if err := tx.Delete(&models.Project{}, "id = ?", project.ID).Error; err != nil {
		return err
	}

	m.log.WithFields(logrus.Fields{
		"project":       project.ID,
		"boards":        len(boardIDs),
		"tasks_deleted": tasks,
	}).Info("project deleted")
	return nil
}

func (m *Manager) deleteBoards(tx *gorm.DB, boardIDs []uuid.UUID) (int64, error) {
	if len(boardIDs) == 0 {
		return 0, nil
	}
	if err := lockBoards(tx, boardIDs); err != nil {
		return 0, err
	}
	columns := tx.Model(&models.Column{}).Select("id").Where("board_id IN ?", boardIDs)
	res := tx.Where("column_id IN (?)", columns).Delete(&models.Task{})
	if res.Error != nil {
		return 0, res.Error
	}
	if err := tx.Where("board_id IN ?", boardIDs).Delete(&models.Column{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("id IN ?", boardIDs).Delete(&models.Board{}).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// lockBoards locks the boards and then their columns, in id order. Column and task inserts
// lock one of these rows first, so they either commit before the delete reads its rows or
// find their parent gone.
func lockBoards(tx *gorm.DB, boardIDs []uuid.UUID) error {
	var boards []models.Board
	if err := database.LockRows(tx, &boards, boardIDs); err != nil {
		return err
	}
	var columns []models.Column
	return database.Locked(tx).Where("board_id IN ?", boardIDs).Order("id").Find(&columns).Error
}

// Archive sets or clears the archived flag of one entity. Positions and children are left
// alone; listings hide the children of archived entities instead.
func (m *Manager) Archive(tx *gorm.DB, entity models.EntityType, id uuid.UUID, archived bool) error {
	var model any
	switch entity {
	case models.EntityProject:
		model = &models.Project{}
	case models.EntityBoard:
		model = &models.Board{}
	case models.EntityColumn:
		model = &models.Column{}
	case models.EntityTask:
		model = &models.Task{}
	default:
		return apperr.Invalid("unknown entity type %q", entity)
	}

	var at *time.Time
	if archived {
		now := time.Now()
		at = &now
	}
	res := tx.Model(model).Where("id = ?", id).Updates(map[string]any{
		"archived":    archived,
		"archived_at": at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(string(entity), id)
	}
	return nil
}

// Record appends an activity entry written by the user carried in tx's context.
func (m *Manager) Record(tx *gorm.DB, projectID uuid.UUID, action string, entity models.EntityType, entityID uuid.UUID, meta map[string]any) error {
	a := models.Activity{
		ProjectID:  projectID,
		UserID:     actor.User(tx.Statement.Context),
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Metadata:   meta,
	}
	return tx.Create(&a).Error
}
