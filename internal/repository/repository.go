// Package repository implements the project, membership and ordered-entity operations the
// request layer calls. Every method owns its transaction; positions are only read or written
// after the row of the scope's parent has been locked.
package repository

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
	"github.com/arnold/taskboard-api/internal/cascade"
	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/hierarchy"
	"github.com/arnold/taskboard-api/internal/position"
)

// Set bundles the repositories built over one store.
type Set struct {
	Projects    *ProjectRepository
	Memberships *MembershipRepository
	Invites     *InviteRepository
	Activity    *ActivityRepository
	Boards      *BoardRepository
	Columns     *ColumnRepository
	Tasks       *TaskRepository
	Users       *UserRepository
}

// NewSet wires every repository. defaultColumns seeds template boards of projects that do
// not configure their own.
func NewSet(store *database.Store, log *logrus.Logger, defaultColumns []string) *Set {
	alloc := position.New()
	h := hierarchy.New()
	c := cascade.New(alloc, log)
	return &Set{
		Projects:    NewProjectRepository(store, c),
		Memberships: NewMembershipRepository(store, c),
		Invites:     NewInviteRepository(store, c),
		Activity:    NewActivityRepository(store),
		Boards:      NewBoardRepository(store, alloc, c, h, defaultColumns),
		Columns:     NewColumnRepository(store, alloc, c, h),
		Tasks:       NewTaskRepository(store, alloc, c, h),
		Users:       NewUserRepository(store),
	}
}

// lockAttempts bounds how often a child is re-read after its parent moved under it.
const lockAttempts = 3

// lockParent reads the child row, locks its parent row and reads the child again under that
// lock. If the child changed parent in between, the lock is taken on the new parent. It
// returns the child as seen while holding the lock.
func lockParent[C, P any](tx *gorm.DB, childEntity, parentEntity string, childID uuid.UUID, parentOf func(*C) uuid.UUID) (*C, *P, error) {
	var child C
	if err := tx.Take(&child, "id = ?", childID).Error; err != nil {
		return nil, nil, apperr.Translate(err, childEntity, childID)
	}
	for attempt := 0; attempt < lockAttempts; attempt++ {
		parentID := parentOf(&child)
		var parent P
		if err := database.LockRow(tx, &parent, parentID); err != nil {
			return nil, nil, apperr.Translate(err, parentEntity, parentID)
		}
		var fresh C
		if err := tx.Take(&fresh, "id = ?", childID).Error; err != nil {
			return nil, nil, apperr.Translate(err, childEntity, childID)
		}
		if parentOf(&fresh) == parentID {
			return &fresh, &parent, nil
		}
		child = fresh
	}
	return nil, nil, apperr.Conflict("%s %s keeps moving, retry", childEntity, childID)
}

// lockByID locks a row of T by id and translates a miss into NotFound.
func lockByID[T any](tx *gorm.DB, entity string, id uuid.UUID) (*T, error) {
	var row T
	if err := database.LockRow(tx, &row, id); err != nil {
		return nil, apperr.Translate(err, entity, id)
	}
	return &row, nil
}

func get[T any](db *gorm.DB, entity string, id uuid.UUID) (*T, error) {
	var row T
	if err := db.Take(&row, "id = ?", id).Error; err != nil {
		return nil, apperr.Translate(err, entity, id)
	}
	return &row, nil
}
