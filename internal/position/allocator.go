// Package position keeps sibling positions dense. Every method runs inside the caller's
// transaction, after the caller has locked the parent row of the scope it touches.
package position

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/taskboard-api/internal/apperr"
)

// Scope is the set of rows in Table whose Parent column equals ParentID.
type Scope struct {
	Table    string
	Parent   string
	ParentID uuid.UUID
}

func Boards(projectID uuid.UUID) Scope {
	return Scope{Table: "boards", Parent: "project_id", ParentID: projectID}
}

func Columns(boardID uuid.UUID) Scope {
	return Scope{Table: "columns", Parent: "board_id", ParentID: boardID}
}

func Tasks(columnID uuid.UUID) Scope {
	return Scope{Table: "tasks", Parent: "column_id", ParentID: columnID}
}

func (s Scope) sameAs(o Scope) bool {
	return s.Table == o.Table && s.Parent == o.Parent && s.ParentID == o.ParentID
}

func (s Scope) rows(tx *gorm.DB) *gorm.DB {
	return tx.Table(s.Table).Where(s.Parent+" = ?", s.ParentID)
}

// Slot is one sibling's id and position.
type Slot struct {
	ID       uuid.UUID
	Position int
}

type Allocator struct{}

func New() *Allocator {
	return &Allocator{}
}

func (a *Allocator) Count(tx *gorm.DB, s Scope) (int, error) {
	var n int64
	if err := s.rows(tx).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// Append returns the position a new last sibling takes.
func (a *Allocator) Append(tx *gorm.DB, s Scope) (int, error) {
	return a.Count(tx, s)
}

// InsertAt opens a slot at index for a row that is about to be inserted and returns the
// position it must take. The index is clamped to [0, n].
func (a *Allocator) InsertAt(tx *gorm.DB, s Scope, index int) (int, error) {
	n, err := a.Count(tx, s)
	if err != nil {
		return 0, err
	}
	index = clamp(index, 0, n)
	if index < n {
		if err := a.shift(tx, s, index, 1); err != nil {
			return 0, err
		}
	}
	return index, nil
}

// Remove closes the gap left by a row that held pos and has left the scope.
func (a *Allocator) Remove(tx *gorm.DB, s Scope, pos int) error {
	return a.shift(tx, s, pos+1, -1)
}

// MoveWithin moves the row id from position from to position to inside s and returns the
// final position, clamped to [0, n-1].
func (a *Allocator) MoveWithin(tx *gorm.DB, s Scope, id uuid.UUID, from, to int) (int, error) {
	n, err := a.Count(tx, s)
	if err != nil {
		return 0, err
	}
	to = clamp(to, 0, n-1)
	if to == from {
		return to, nil
	}

	q := s.rows(tx).Where("id <> ?", id)
	if to > from {
		q = q.Where("position > ? AND position <= ?", from, to).
			UpdateColumn("position", gorm.Expr("position - 1"))
	} else {
		q = q.Where("position >= ? AND position < ?", to, from).
			UpdateColumn("position", gorm.Expr("position + 1"))
	}
	if q.Error != nil {
		return 0, q.Error
	}
	if err := a.place(tx, s, id, s.ParentID, to); err != nil {
		return 0, err
	}
	return to, nil
}

// MoveBetween takes the row id out of from, where it held fromPos, and inserts it into to at
// index. The row's parent column is rewritten. It returns the new position.
func (a *Allocator) MoveBetween(tx *gorm.DB, id uuid.UUID, from Scope, fromPos int, to Scope, index int) (int, error) {
	if from.sameAs(to) {
		return a.MoveWithin(tx, from, id, fromPos, index)
	}
	if from.Table != to.Table || from.Parent != to.Parent {
		return 0, apperr.CrossParent("cannot move a %s row into %s", from.Table, to.Table)
	}
	if err := a.Remove(tx, from, fromPos); err != nil {
		return 0, err
	}
	pos, err := a.InsertAt(tx, to, index)
	if err != nil {
		return 0, err
	}
	if err := a.place(tx, to, id, to.ParentID, pos); err != nil {
		return 0, err
	}
	return pos, nil
}

// Reorder assigns each id its index in ids. ids must be exactly the current siblings of s;
// otherwise nothing is written and a ReorderMismatch error is returned.
func (a *Allocator) Reorder(tx *gorm.DB, s Scope, ids []uuid.UUID) error {
	slots, err := a.Positions(tx, s)
	if err != nil {
		return err
	}
	if err := checkPermutation(slots, ids); err != nil {
		return err
	}

	current := make(map[uuid.UUID]int, len(slots))
	for _, sl := range slots {
		current[sl.ID] = sl.Position
	}
	for i, id := range ids {
		if current[id] == i {
			continue
		}
		if err := a.place(tx, s, id, s.ParentID, i); err != nil {
			return err
		}
	}
	return nil
}

// Relocate appends every row of from to the end of to, keeping their relative order, and
// returns how many rows moved.
func (a *Allocator) Relocate(tx *gorm.DB, from, to Scope) (int, error) {
	if from.Table != to.Table || from.Parent != to.Parent || from.sameAs(to) {
		return 0, apperr.CrossParent("cannot relocate %s rows onto their own scope", from.Table)
	}
	base, err := a.Count(tx, to)
	if err != nil {
		return 0, err
	}
	res := from.rows(tx).UpdateColumns(map[string]any{
		from.Parent: to.ParentID,
		"position":  gorm.Expr("position + ?", base),
	})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// Positions lists the siblings of s in position order.
func (a *Allocator) Positions(tx *gorm.DB, s Scope) ([]Slot, error) {
	var slots []Slot
	err := s.rows(tx).Select("id", "position").Order("position, id").Scan(&slots).Error
	return slots, err
}

func (a *Allocator) shift(tx *gorm.DB, s Scope, from, delta int) error {
	return s.rows(tx).Where("position >= ?", from).
		UpdateColumn("position", gorm.Expr("position + ?", delta)).Error
}

func (a *Allocator) place(tx *gorm.DB, s Scope, id, parentID uuid.UUID, pos int) error {
	return tx.Table(s.Table).Where("id = ?", id).UpdateColumns(map[string]any{
		s.Parent:   parentID,
		"position": pos,
	}).Error
}

func checkPermutation(slots []Slot, ids []uuid.UUID) error {
	if len(ids) != len(slots) {
		return apperr.ReorderMismatch("expected %d ids, got %d", len(slots), len(ids))
	}
	known := make(map[uuid.UUID]bool, len(slots))
	for _, sl := range slots {
		known[sl.ID] = false
	}
	for _, id := range ids {
		seen, ok := known[id]
		switch {
		case !ok:
			return apperr.ReorderMismatch("%s is not a sibling in this scope", id)
		case seen:
			return apperr.ReorderMismatch("%s appears more than once", id)
		}
		known[id] = true
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
